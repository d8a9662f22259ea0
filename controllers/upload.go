package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/repository"
	"github.com/BerniceZTT/airlab_end/service"
	"github.com/BerniceZTT/airlab_end/storage"
	"github.com/BerniceZTT/airlab_end/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

const (
	// 单个文件大小限制(20MB)
	maxUploadSize = 20 << 20

	pdfPrefix   = "research/pdfs"
	imagePrefix = "research/images"
)

// UploadController 论文PDF和封面图片上传，成功后新增研究记录
type UploadController struct {
	uploader    storage.Uploader
	store       repository.DocumentStore
	invalidator service.ContentInvalidator
}

// NewUploadController 创建上传接口，store为研究论文集合
func NewUploadController(uploader storage.Uploader, store repository.DocumentStore, invalidator service.ContentInvalidator) *UploadController {
	return &UploadController{uploader: uploader, store: store, invalidator: invalidator}
}

// UploadResearch 处理 multipart 表单：file(PDF)、image(图片)以及论文字段
func (ctl *UploadController) UploadResearch(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("Missing file"))
		return
	}
	imageHeader, err := c.FormFile("image")
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("Missing image"))
		return
	}

	doc := map[string]any{
		"title":       strings.TrimSpace(c.PostForm("title")),
		"authors":     strings.TrimSpace(c.PostForm("authors")),
		"description": strings.TrimSpace(c.PostForm("description")),
	}
	if yearText := strings.TrimSpace(c.PostForm("year")); yearText != "" {
		year, err := strconv.Atoi(yearText)
		if err != nil {
			utils.HandleError(c, utils.CreateBadRequestError("year must be a number"))
			return
		}
		doc["year"] = float64(year)
	}

	// 先用占位URL校验其他字段，避免无效请求留下孤立文件
	preview := map[string]any{"fileUrl": "pending", "imageUrl": "https://pending.invalid/"}
	for k, v := range doc {
		preview[k] = v
	}
	if errs := withoutField(validateRecord(models.ContentResearch, preview), "_id"); len(errs) > 0 {
		utils.HandleError(c, utils.CreateValidationError("Invalid research record", errs))
		return
	}

	fileURL, fileKey, err := ctl.saveFile(c, fileHeader, pdfPrefix, isPDF)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	imageURL, imageKey, err := ctl.saveFile(c, imageHeader, imagePrefix, isImage)
	if err != nil {
		ctl.discard(c, fileKey)
		utils.HandleError(c, err)
		return
	}
	doc["fileUrl"] = fileURL
	doc["imageUrl"] = imageURL

	created, err := ctl.store.Create(ctx, doc)
	if err != nil {
		ctl.discard(c, fileKey, imageKey)
		utils.HandleError(c, storeError(models.ContentResearch, err))
		return
	}

	utils.Logger.Info().Interface("id", created["_id"]).Str("fileUrl", fileURL).Msg("[文件上传] 研究论文上传成功")
	ctl.invalidator.InvalidateContent(ctx, models.ContentResearch)
	utils.SuccessResponse(c, created, "Research uploaded successfully", http.StatusCreated)
}

// saveFile 检查类型后保存单个文件，返回公开URL和对象名
func (ctl *UploadController) saveFile(c *gin.Context, header *multipart.FileHeader, prefix string, accept func(*mimetype.MIME) bool) (string, string, error) {
	if header.Size > maxUploadSize {
		return "", "", utils.CreateBadRequestError(fmt.Sprintf("%s exceeds the %dMB limit", header.Filename, maxUploadSize>>20))
	}

	f, err := header.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", "", fmt.Errorf("detect content type: %w", err)
	}
	if !accept(mtype) {
		utils.Logger.Info().Str("file", header.Filename).Str("mime", mtype.String()).Msg("[文件上传] 文件类型不允许")
		return "", "", utils.CreateBadRequestError("Only PDFs and images are allowed.")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("rewind upload: %w", err)
	}

	key := storage.ObjectKey(prefix, header.Filename)
	url, err := ctl.uploader.Put(c.Request.Context(), key, f, header.Size, mtype.String())
	if err != nil {
		return "", "", fmt.Errorf("store %s: %w", header.Filename, err)
	}
	return url, key, nil
}

// discard 删除已保存但没有对应记录的文件
func (ctl *UploadController) discard(c *gin.Context, keys ...string) {
	for _, key := range keys {
		if err := ctl.uploader.Delete(c.Request.Context(), key); err != nil {
			utils.Logger.Warn().Err(err).Str("key", key).Msg("[文件上传] 清理文件失败")
		}
	}
}

func isPDF(m *mimetype.MIME) bool {
	return m.Is("application/pdf")
}

func isImage(m *mimetype.MIME) bool {
	return strings.HasPrefix(m.String(), "image/")
}
