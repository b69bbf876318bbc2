package http

import (
	"ShrinkIt-Backend/internal/auth"
	"ShrinkIt-Backend/internal/domain"
	"ShrinkIt-Backend/internal/service"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LinksHandler обработчик для работы со ссылками
type LinksHandler struct {
	links *service.LinkService
	log   *zap.Logger
}

// NewLinksHandler создает новый обработчик ссылок
func NewLinksHandler(links *service.LinkService, log *zap.Logger) *LinksHandler {
	return &LinksHandler{
		links: links,
		log:   log,
	}
}

// CreateLinkRequest структура запроса создания ссылки
type CreateLinkRequest struct {
	OriginalURL string     `json:"originalUrl"`
	Title       string     `json:"title,omitempty"`
	CustomSlug  string     `json:"customSlug,omitempty"`
	Password    string     `json:"password,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// UpdateLinkRequest частичное обновление; отсутствующие поля не меняются
type UpdateLinkRequest struct {
	OriginalURL *string    `json:"originalUrl,omitempty"`
	Title       *string    `json:"title,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
	Password    *string    `json:"password,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// AnalyzeRequest структура запроса подбора заголовка
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// AnalyzeResponse предложенный заголовок
type AnalyzeResponse struct {
	Title string `json:"title"`
}

// QRCodeResponse QR код в виде data URL
type QRCodeResponse struct {
	QRCodeURL string `json:"qrCodeUrl"`
}

// LinkResponse представление ссылки в API. Пароль никогда не отдается.
type LinkResponse struct {
	ID          int64      `json:"id"`
	OriginalURL string     `json:"originalUrl"`
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"`
	Title       string     `json:"title"`
	HasPassword bool       `json:"hasPassword"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	IsActive    bool       `json:"isActive"`
	Clicks      int64      `json:"clicks"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (h *LinksHandler) toResponse(link *domain.Link) LinkResponse {
	return LinkResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortCode:   link.ShortCode,
		ShortURL:    h.links.ShortURL(link),
		Title:       link.Title,
		HasPassword: link.HasPassword(),
		ExpiresAt:   link.ExpiresAt,
		IsActive:    link.IsActive,
		Clicks:      link.ClickCount,
		CreatedAt:   link.CreatedAt,
		UpdatedAt:   link.UpdatedAt,
	}
}

// CreateLink создает новую короткую ссылку
//
//	@Summary		Create a short link
//	@Description	Create a short link with an optional custom slug, password and expiry
//	@Tags			Links
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		CreateLinkRequest	true	"Link to shorten"
//	@Success		201		{object}	LinkResponse
//	@Failure		400		{object}	MessageResponse	"Missing URL or name already taken"
//	@Failure		401		{object}	MessageResponse
//	@Failure		500		{object}	MessageResponse
//	@Router			/api/links [post]
func (h *LinksHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, h.log, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid create link request", zap.Error(err))
		writeMessage(w, h.log, http.StatusBadRequest, msgInvalidFormat)
		return
	}

	link, err := h.links.Create(r.Context(), userID, service.CreateLinkInput{
		OriginalURL: req.OriginalURL,
		Title:       req.Title,
		CustomSlug:  req.CustomSlug,
		Password:    req.Password,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusCreated, h.toResponse(link))
}

// ListLinks возвращает ссылки пользователя, новые первыми
//
//	@Summary	List my links
//	@Tags		Links
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		LinkResponse
//	@Failure	401	{object}	MessageResponse
//	@Failure	500	{object}	MessageResponse
//	@Router		/api/links [get]
func (h *LinksHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, h.log, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	links, err := h.links.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	response := make([]LinkResponse, 0, len(links))
	for _, link := range links {
		response = append(response, h.toResponse(link))
	}

	writeJSON(w, h.log, http.StatusOK, response)
}

// UpdateLink частично обновляет ссылку владельца
//
//	@Summary	Update a link
//	@Tags		Links
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"Link ID"
//	@Param		request	body		UpdateLinkRequest	true	"Fields to change"
//	@Success	200		{object}	LinkResponse
//	@Failure	400		{object}	MessageResponse
//	@Failure	401		{object}	MessageResponse
//	@Failure	404		{object}	MessageResponse
//	@Router		/api/links/{id} [put]
func (h *LinksHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	userID, linkID, ok := h.ownerParams(w, r)
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid update link request", zap.Error(err))
		writeMessage(w, h.log, http.StatusBadRequest, msgInvalidFormat)
		return
	}

	link, err := h.links.Update(r.Context(), userID, linkID, service.UpdateLinkInput{
		OriginalURL: req.OriginalURL,
		Title:       req.Title,
		IsActive:    req.IsActive,
		Password:    req.Password,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, h.toResponse(link))
}

// DeleteLink удаляет ссылку владельца вместе с историей кликов
//
//	@Summary	Delete a link
//	@Tags		Links
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Link ID"
//	@Success	200	{object}	MessageResponse
//	@Failure	401	{object}	MessageResponse
//	@Failure	404	{object}	MessageResponse
//	@Router		/api/links/{id} [delete]
func (h *LinksHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	userID, linkID, ok := h.ownerParams(w, r)
	if !ok {
		return
	}

	if err := h.links.Delete(r.Context(), userID, linkID); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeMessage(w, h.log, http.StatusOK, "Link removed successfully")
}

// GetQRCode возвращает QR код короткой ссылки
//
//	@Summary	QR code for a link
//	@Tags		Links
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Link ID"
//	@Success	200	{object}	QRCodeResponse
//	@Failure	401	{object}	MessageResponse
//	@Failure	404	{object}	MessageResponse
//	@Router		/api/links/{id}/qr [get]
func (h *LinksHandler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	userID, linkID, ok := h.ownerParams(w, r)
	if !ok {
		return
	}

	dataURL, err := h.links.QRCode(r.Context(), userID, linkID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, QRCodeResponse{QRCodeURL: dataURL})
}

// GetAnalytics возвращает агрегированную статистику кликов
//
//	@Summary	Link analytics
//	@Tags		Links
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"Link ID"
//	@Success	200	{object}	service.LinkAnalytics
//	@Failure	401	{object}	MessageResponse
//	@Failure	404	{object}	MessageResponse
//	@Router		/api/links/{id}/analytics [get]
func (h *LinksHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, linkID, ok := h.ownerParams(w, r)
	if !ok {
		return
	}

	report, err := h.links.Analytics(r.Context(), userID, linkID)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, report)
}

// AnalyzeURL предлагает заголовок для URL; ошибка внешнего сервиса не
// доходит до клиента
//
//	@Summary	Suggest a title
//	@Tags		Links
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		AnalyzeRequest	true	"URL to analyze"
//	@Success	200		{object}	AnalyzeResponse
//	@Failure	400		{object}	MessageResponse
//	@Router		/api/links/analyze [post]
func (h *LinksHandler) AnalyzeURL(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, h.log, http.StatusBadRequest, msgInvalidFormat)
		return
	}

	title, err := h.links.SuggestTitle(r.Context(), req.URL)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, AnalyzeResponse{Title: title})
}

// ownerParams достает ID пользователя из контекста и ID ссылки из пути
func (h *LinksHandler) ownerParams(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, h.log, http.StatusUnauthorized, msgUnauthorized)
		return 0, 0, false
	}

	linkID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || linkID <= 0 {
		writeMessage(w, h.log, http.StatusBadRequest, msgInvalidLinkID)
		return 0, 0, false
	}

	return userID, linkID, true
}
