package http

import (
	"ShrinkIt-Backend/internal/analytics"
	"ShrinkIt-Backend/internal/service"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ClickSubmitter принимает клик на асинхронную запись
type ClickSubmitter interface {
	Submit(job analytics.ClickJob) error
}

// RedirectHandler обработчик редиректов
type RedirectHandler struct {
	resolver *service.Resolver
	clicks   ClickSubmitter
	log      *zap.Logger
	now      func() time.Time
}

// NewRedirectHandler создает новый обработчик редиректов
func NewRedirectHandler(resolver *service.Resolver, clicks ClickSubmitter, log *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		resolver: resolver,
		clicks:   clicks,
		log:      log,
		now:      time.Now,
	}
}

// statusPages минимальные страницы для отказов в редиректе
var statusPages = map[service.Outcome]struct {
	code int
	body string
}{
	service.OutcomeNotFound:         {code: http.StatusNotFound, body: "Link not found"},
	service.OutcomeDisabled:         {code: http.StatusForbidden, body: "Link has been disabled."},
	service.OutcomeExpired:          {code: http.StatusGone, body: "This link has expired."},
	service.OutcomePasswordRequired: {code: http.StatusUnauthorized, body: "Password required"},
}

// HandleRedirect обрабатывает редирект по короткому коду
//
//	@Summary	Follow a short link
//	@Tags		Redirect
//	@Produce	html
//	@Param		shortCode	path	string	true	"Short code"
//	@Success	302
//	@Failure	401	"Password required"
//	@Failure	403	"Link has been disabled"
//	@Failure	404	"Link not found"
//	@Failure	410	"Link has expired"
//	@Router		/{shortCode} [get]
func (h *RedirectHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	res, err := h.resolver.Resolve(r.Context(), shortCode)
	if err != nil {
		h.log.Error("failed to process redirect", zap.String("short_code", shortCode), zap.Error(err))
		writeMessage(w, h.log, http.StatusInternalServerError, msgServerError)
		return
	}

	if res.Outcome != service.OutcomeRedirect {
		page := statusPages[res.Outcome]
		h.log.Debug("redirect refused", zap.String("short_code", shortCode), zap.Stringer("outcome", res.Outcome))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(page.code)
		_, _ = fmt.Fprintf(w, "<h1>%s</h1>", page.body)
		return
	}

	http.Redirect(w, r, res.Link.OriginalURL, http.StatusFound)

	// ответ уже отправлен; ошибка постановки в очередь на него не влияет
	job := analytics.ClickJob{
		LinkID:    res.Link.ID,
		ShortCode: res.Link.ShortCode,
		IPAddress: extractIPAddress(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
		ClickedAt: h.now().UTC(),
	}
	if err := h.clicks.Submit(job); err != nil {
		h.log.Warn("click not recorded", zap.String("short_code", shortCode), zap.Error(err))
	}
}

// extractIPAddress извлекает IP адрес из запроса с учетом прокси
func extractIPAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
