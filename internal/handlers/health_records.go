package handlers

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"sehat-sathi-server/internal/middleware"
	"sehat-sathi-server/internal/records"
	"sehat-sathi-server/internal/utils"
)

const sniffLen = 512

// HealthRecordHandler handles health record requests.
type HealthRecordHandler struct {
	Records *records.HealthRecordStore
}

// NewHealthRecordHandler creates a new HealthRecordHandler.
func NewHealthRecordHandler(store *records.HealthRecordStore) *HealthRecordHandler {
	return &HealthRecordHandler{Records: store}
}

// GetCategories lists the current user's record categories.
func (h *HealthRecordHandler) GetCategories(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	utils.Success(c, "Health records retrieved successfully", h.Records.Categories(userID))
}

// UploadRecords adds the multipart "files" to a category. File contents are
// only sniffed for their type and then discarded.
func (h *HealthRecordHandler) UploadRecords(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequest(c, "Error retrieving files from form: "+err.Error())
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		utils.BadRequest(c, "At least one file is required in the \"files\" field")
		return
	}

	uploads := make([]records.Upload, 0, len(headers))
	for _, fh := range headers {
		head, err := readHead(fh)
		if err != nil {
			utils.InternalServerError(c, "Error reading file content: "+err.Error())
			return
		}
		uploads = append(uploads, records.Upload{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Head:        head,
		})
	}

	added, err := h.Records.Add(userID, c.Param("category"), uploads)
	if errors.Is(err, records.ErrUnknownCategory) {
		utils.NotFound(c, "Record category not found")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to add records: "+err.Error())
		return
	}
	utils.Created(c, "Files uploaded successfully", added)
}

func readHead(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

// GetRecord returns one record and the category it belongs to.
func (h *HealthRecordHandler) GetRecord(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	rec, category, err := h.Records.Get(userID, c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Health record not found")
		return
	}
	utils.Success(c, "Health record retrieved successfully", gin.H{"category": category, "record": rec})
}

// DeleteRecord removes a record from a category.
func (h *HealthRecordHandler) DeleteRecord(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "not authenticated")
		return
	}
	err := h.Records.Delete(userID, c.Param("category"), c.Param("id"))
	switch {
	case errors.Is(err, records.ErrUnknownCategory):
		utils.NotFound(c, "Record category not found")
	case errors.Is(err, records.ErrRecordNotFound):
		utils.NotFound(c, "Health record not found")
	case err != nil:
		utils.InternalServerError(c, "Failed to delete record: "+err.Error())
	default:
		utils.Success(c, "Health record deleted", nil)
	}
}
