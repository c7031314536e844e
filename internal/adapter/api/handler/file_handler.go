package handler

import (
	"github.com/labstack/echo/v4"

	"greia/internal/domain/entity"
	"greia/internal/usecase"
	"greia/pkg/errors"
	"greia/pkg/logger"
	"greia/pkg/response"
	"greia/pkg/utils"
)

type FileHandler struct {
	fileUseCase *usecase.FileUseCase
}

var fileHandler *FileHandler

func NewFileHandler(fileUseCase *usecase.FileUseCase) *FileHandler {
	return &FileHandler{
		fileUseCase: fileUseCase,
	}
}

func SetupFileHandler(fileUseCase *usecase.FileUseCase) {
	fileHandler = NewFileHandler(fileUseCase)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

// UploadFile takes a multipart "file" part and a "folder" field.
func (h *FileHandler) UploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	folder := entity.UploadFolder(c.FormValue("folder"))
	if folder == "" {
		folder = entity.FolderPosts
	}
	logger.Debug("Upload: %s (%d bytes) into %s", file.Filename, file.Size, folder)

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Unable to read file", err))
	}
	defer src.Close()

	metadata, err := h.fileUseCase.Upload(c.Request().Context(), callerID(c), usecase.UploadInput{
		Folder:   folder,
		Filename: file.Filename,
		Content:  src,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, metadata)
}

func (h *FileHandler) ListMyFiles(c echo.Context) error {
	page := utils.GetCursorParams(c, 50)

	files, err := h.fileUseCase.ListMine(c.Request().Context(), callerID(c), page.Limit)
	if err != nil {
		return response.Error(c, err)
	}

	if files == nil {
		files = []*entity.FileMetadata{}
	}
	return response.Success(c, files)
}
