package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/yumpooma/database"
	"github.com/yeremiapane/yumpooma/kds"
	"github.com/yeremiapane/yumpooma/models"
	"github.com/yeremiapane/yumpooma/services"
	"github.com/yeremiapane/yumpooma/utils"
)

type MenuController struct {
	Gateway *database.Gateway
	Images  *services.ImageStore
	Hub     services.Broadcaster
}

func NewMenuController(gateway *database.Gateway, images *services.ImageStore, hub services.Broadcaster) *MenuController {
	return &MenuController{Gateway: gateway, Images: images, Hub: hub}
}

// menuForm is usually multipart so an image can be attached; JSON works
// for edits without an image.
type menuForm struct {
	Name        string   `form:"name" json:"name" binding:"required"`
	Price       *float64 `form:"price" json:"price" binding:"required,gte=0"`
	Description string   `form:"description" json:"description"`
	Category    string   `form:"category" json:"category" binding:"required"`
	RemoveImage bool     `form:"remove_image" json:"remove_image"`
}

func (mc *MenuController) withImageURL(menu *models.Menu) {
	if mc.Images != nil {
		menu.SetImageURL(mc.Images.URL)
	}
}

func (mc *MenuController) broadcast(action string, menu interface{}) {
	if mc.Hub != nil {
		mc.Hub.Broadcast(kds.EventMenuUpdated, gin.H{"action": action, "menu": menu})
	}
}

// GetAllMenus -> optional ?category= filter
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	var (
		menus []models.Menu
		err   error
	)
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		menus, err = mc.Gateway.ListMenusByCategory(c.Request.Context(), category)
	} else {
		menus, err = mc.Gateway.ListMenus(c.Request.Context())
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	for i := range menus {
		mc.withImageURL(&menus[i])
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}
	menu, err := mc.Gateway.GetMenu(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if menu == nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrMenuNotFound)
		return
	}
	mc.withImageURL(menu)
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

func (mc *MenuController) GetCategories(c *gin.Context) {
	categories, err := mc.Gateway.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

// saveImage stores an optional "image" upload and returns its file name, or
// nil when none was sent.
func (mc *MenuController) saveImage(c *gin.Context) (*string, error) {
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, &services.ValidationError{Field: "image", Message: err.Error()}
	}
	name, err := mc.Images.Save(file)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var form menuForm
	if err := c.ShouldBind(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	image, err := mc.saveImage(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	menu := models.Menu{
		Name:        strings.TrimSpace(form.Name),
		Price:       *form.Price,
		Description: optionalText(form.Description),
		Image:       image,
		Category:    strings.TrimSpace(form.Category),
	}
	if err := mc.Gateway.CreateMenu(c.Request.Context(), &menu); err != nil {
		if image != nil {
			mc.Images.Remove(*image)
		}
		respondServiceError(c, err)
		return
	}

	mc.withImageURL(&menu)
	mc.broadcast("created", menu)
	utils.InfoLogger.Printf("Menu %d created: %s", menu.ID, menu.Name)
	utils.RespondJSON(c, http.StatusCreated, "Menu created successfully", menu)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}
	var form menuForm
	if err := c.ShouldBind(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	menu, err := mc.Gateway.GetMenu(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if menu == nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrMenuNotFound)
		return
	}

	image, err := mc.saveImage(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	oldImage := menu.Image
	menu.Name = strings.TrimSpace(form.Name)
	menu.Price = *form.Price
	menu.Description = optionalText(form.Description)
	menu.Category = strings.TrimSpace(form.Category)
	switch {
	case image != nil:
		menu.Image = image
	case form.RemoveImage:
		menu.Image = nil
	}

	if err := mc.Gateway.UpdateMenu(ctx, menu); err != nil {
		if image != nil {
			mc.Images.Remove(*image)
		}
		respondServiceError(c, err)
		return
	}
	if oldImage != nil && (menu.Image == nil || *menu.Image != *oldImage) {
		if err := mc.Images.Remove(*oldImage); err != nil {
			utils.ErrorLogger.Printf("Error removing old image %s: %v", *oldImage, err)
		}
	}

	mc.withImageURL(menu)
	mc.broadcast("updated", menu)
	utils.RespondJSON(c, http.StatusOK, "Menu updated successfully", menu)
}

// DeleteMenu leaves existing bills untouched; they carry their own copy of
// the item.
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, ok := parseIDParam(c, "menu_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	menu, err := mc.Gateway.GetMenu(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if menu == nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrMenuNotFound)
		return
	}
	if _, err := mc.Gateway.DeleteMenu(ctx, id); err != nil {
		respondServiceError(c, err)
		return
	}
	if menu.Image != nil {
		if err := mc.Images.Remove(*menu.Image); err != nil {
			utils.ErrorLogger.Printf("Error removing image %s: %v", *menu.Image, err)
		}
	}

	mc.broadcast("deleted", gin.H{"id": id})
	utils.RespondJSON(c, http.StatusOK, "Menu deleted successfully", nil)
}
