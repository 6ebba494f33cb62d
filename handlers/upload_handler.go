package handlers

import (
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// CoverUploadFolder is the Cloudinary folder DAO cover images land in.
const CoverUploadFolder = "studydao_covers"

// UploadSignature lets a browser post a cover image straight to Cloudinary.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

// SignCoverUpload signs the folder and timestamp params with the account secret.
func SignCoverUpload(cld *cloudinary.Cloudinary, at time.Time) (*UploadSignature, error) {
	timestamp := at.Unix()
	params := url.Values{}
	params.Set("folder", CoverUploadFolder)
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(params, cld.Config.Cloud.APISecret)
	if err != nil {
		return nil, err
	}
	return &UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    cld.Config.Cloud.APIKey,
		CloudName: cld.Config.Cloud.CloudName,
		Folder:    CoverUploadFolder,
	}, nil
}

func (h *Handler) GenerateUploadSignature(c *fiber.Ctx) error {
	if h.CloudinaryURL == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Uploads are not configured"})
	}
	cld, err := cloudinary.NewFromURL(h.CloudinaryURL)
	if err != nil {
		log.Error().Err(err).Msg("🔥 invalid CLOUDINARY_URL")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize Cloudinary"})
	}

	sig, err := SignCoverUpload(cld, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}
	return c.JSON(sig)
}
