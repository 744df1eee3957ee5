package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/store"
	"salonbook-backend/utils"
)

const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type ReorderGalleryInput struct {
	ImageIDs []uuid.UUID `json:"imageIds" binding:"required"`
}

type GalleryController struct {
	gallery GalleryStore
	salons  SalonStore
	users   UserStore
	images  ImageStore
	keyFor  func(salonID uuid.UUID, ext string) string
}

func NewGalleryController(gallery GalleryStore, salons SalonStore, users UserStore, images ImageStore) *GalleryController {
	return &GalleryController{
		gallery: gallery,
		salons:  salons,
		users:   users,
		images:  images,
		keyFor:  services.GalleryKey,
	}
}

func (gc *GalleryController) ListGallery(c *gin.Context) {
	salon, ok := publicSalon(c, gc.users, gc.salons)
	if !ok {
		return
	}
	images, err := gc.gallery.ListGallery(c.Request.Context(), salon.ID)
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	c.JSON(http.StatusOK, images)
}

// UploadImage stores the multipart "image" file and appends it to the gallery.
func (gc *GalleryController) UploadImage(c *gin.Context) {
	_, salon, ok := salonAccess(c, gc.users, gc.salons, isManager)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	n, err := gc.gallery.CountGallery(ctx, salon.ID)
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	if n >= models.MaxGalleryImages {
		utils.RespondWithError(c, http.StatusBadRequest, "Gallery is limited to 10 images")
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Image file is required")
		return
	}
	if header.Size > MaxImageSize {
		utils.RespondWithError(c, http.StatusBadRequest, "Image must be 5MB or smaller")
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to read image")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	read, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to read image")
		return
	}
	contentType := http.DetectContentType(head[:read])
	ext, ok := imageExtensions[contentType]
	if !ok || !strings.HasPrefix(contentType, "image/") {
		utils.RespondWithError(c, http.StatusBadRequest, "Only JPEG, PNG, GIF and WebP images are allowed")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read image")
		return
	}

	key := gc.keyFor(salon.ID, ext)
	url, err := gc.images.Put(ctx, key, contentType, file, header.Size)
	if err != nil {
		logger(c).WithError(err).WithField("salon_id", salon.ID).Error("Image upload failed")
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to upload image")
		return
	}

	img := models.SalonGallery{
		SalonID:    salon.ID,
		ImageURL:   url,
		StorageKey: key,
		Caption:    strings.TrimSpace(c.PostForm("caption")),
	}
	if err := gc.gallery.AddGalleryImage(ctx, &img); err != nil {
		gc.dropObject(c, salon.ID, key)
		if errors.Is(err, store.ErrGalleryFull) {
			utils.RespondWithError(c, http.StatusBadRequest, "Gallery is limited to 10 images")
			return
		}
		respondStoreError(c, err, "Salon not found")
		return
	}
	c.JSON(http.StatusCreated, img)
}

func (gc *GalleryController) ReorderGallery(c *gin.Context) {
	_, salon, ok := salonAccess(c, gc.users, gc.salons, isManager)
	if !ok {
		return
	}

	var input ReorderGalleryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	if err := gc.gallery.ReorderGallery(c.Request.Context(), salon.ID, input.ImageIDs); err != nil {
		if errors.Is(err, store.ErrInvalidOrder) {
			utils.RespondWithError(c, http.StatusBadRequest, "imageIds must list every gallery image exactly once")
			return
		}
		respondStoreError(c, err, "Salon not found")
		return
	}

	images, err := gc.gallery.ListGallery(c.Request.Context(), salon.ID)
	if err != nil {
		respondStoreError(c, err, "Salon not found")
		return
	}
	c.JSON(http.StatusOK, images)
}

func (gc *GalleryController) SetPrimary(c *gin.Context) {
	_, salon, ok := salonAccess(c, gc.users, gc.salons, isManager)
	if !ok {
		return
	}
	imageID, ok := utils.ParamUUID(c, "imageId", "image")
	if !ok {
		return
	}
	if err := gc.gallery.SetPrimaryImage(c.Request.Context(), salon.ID, imageID); err != nil {
		respondStoreError(c, err, "Image not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Primary image updated"})
}

func (gc *GalleryController) DeleteImage(c *gin.Context) {
	_, salon, ok := salonAccess(c, gc.users, gc.salons, isManager)
	if !ok {
		return
	}
	imageID, ok := utils.ParamUUID(c, "imageId", "image")
	if !ok {
		return
	}

	img, err := gc.gallery.DeleteGalleryImage(c.Request.Context(), salon.ID, imageID)
	if err != nil {
		respondStoreError(c, err, "Image not found")
		return
	}
	gc.dropObject(c, salon.ID, img.StorageKey)
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
}

func (gc *GalleryController) dropObject(c *gin.Context, salonID uuid.UUID, key string) {
	if err := gc.images.Delete(c.Request.Context(), key); err != nil {
		logger(c).WithError(err).WithField("salon_id", salonID).Warn("Failed to delete gallery object")
	}
}
