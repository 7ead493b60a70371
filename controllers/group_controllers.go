package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/littlelemon/restaurant-api/models"
	"github.com/littlelemon/restaurant-api/utils"
)

// GroupController manages Manager and Delivery Crew membership. Every route
// using it is Manager-gated by the router.
type GroupController struct {
	DB *gorm.DB
}

func NewGroupController(db *gorm.DB) *GroupController {
	return &GroupController{DB: db}
}

func (gc *GroupController) ListManagers(c *gin.Context)  { gc.listMembers(c, models.GroupManager) }
func (gc *GroupController) AddManager(c *gin.Context)    { gc.addMember(c, models.GroupManager) }
func (gc *GroupController) RemoveManager(c *gin.Context) { gc.removeMember(c, models.GroupManager) }
func (gc *GroupController) ListDeliveryCrew(c *gin.Context) {
	gc.listMembers(c, models.GroupDeliveryCrew)
}
func (gc *GroupController) AddDeliveryCrew(c *gin.Context) { gc.addMember(c, models.GroupDeliveryCrew) }
func (gc *GroupController) RemoveDeliveryCrew(c *gin.Context) {
	gc.removeMember(c, models.GroupDeliveryCrew)
}

func (gc *GroupController) group(name string) (*models.Group, error) {
	var group models.Group
	if err := gc.DB.Where("name = ?", name).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (gc *GroupController) listMembers(c *gin.Context, name string) {
	group, err := gc.group(name)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	users := make([]models.User, 0)
	if err := gc.DB.
		Joins("JOIN user_groups ON user_groups.user_id = users.id").
		Where("user_groups.group_id = ?", group.ID).
		Order("users.id").
		Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Group members", users)
}

func (gc *GroupController) addMember(c *gin.Context, name string) {
	var body struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := gc.DB.Where("username = ?", body.Username).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	group, err := gc.group(name)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := gc.DB.Model(&user).Association("Groups").Append(group); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %s added to group %s", user.Username, name)
	utils.RespondJSON(c, http.StatusCreated, "ok", nil)
}

func (gc *GroupController) removeMember(c *gin.Context, name string) {
	id, _ := strconv.Atoi(c.Param("user_id"))

	var user models.User
	if err := gc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	group, err := gc.group(name)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := gc.DB.Model(&user).Association("Groups").Delete(group); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("User %s removed from group %s", user.Username, name)
	utils.RespondJSON(c, http.StatusOK, "ok", nil)
}
