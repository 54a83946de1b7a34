package web

// errors.go maps domain and API errors to user-facing messages.
//
// Error codes:
//
//	VAL001  - Validation failed before any remote call; the message is the
//	          validation message itself
//	AUTH001 - The API rejected the credential; the session is cleared
//	RATE001 - Rate limited by the API or this server; shown with a
//	          contact-support link
//	NF001   - The record no longer exists
//	ADM001  - The protected admin cannot be deleted
//	EXP001  - Nothing to export
//	BSY001  - Every import slot is busy
//	TMO001  - The remote API did not answer in time
//	API001  - The API returned an error message, shown verbatim
//	ERR000  - Anything else; the handler's fallback message is shown

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/leadintake/internal/api"
	"github.com/JonMunkholm/leadintake/internal/dashboard"
	"github.com/JonMunkholm/leadintake/internal/leads"
	"github.com/JonMunkholm/leadintake/internal/logging"
	"github.com/JonMunkholm/leadintake/internal/web/templates"
)

// Error codes.
const (
	CodeValidation   = "VAL001"
	CodeUnauthorized = "AUTH001"
	CodeRateLimited  = "RATE001"
	CodeNotFound     = "NF001"
	CodeProtected    = "ADM001"
	CodeNothing      = "EXP001"
	CodeBusy         = "BSY001"
	CodeTimeout      = "TMO001"
	CodeAPI          = "API001"
	CodeUnknown      = "ERR000"
)

// User-facing messages shared by several handlers.
const (
	MsgRateLimited = "Ocorreu um erro, fale com o Gerente para obter ajuda"
	MsgSupportLink = "Falar com o Gerente"
	MsgNothing     = "Não há formulários para exportar"
	MsgProtected   = "Não é possível excluir o admin principal"
	MsgNotFound    = "Registro não encontrado"
	MsgTimeout     = "O servidor demorou para responder, tente novamente"
	MsgBusy        = "Outra importação está em andamento, tente novamente em instantes"
)

// UserMessage is a user-facing error.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// errRateLimited is returned by the local limiter.
var errRateLimited = fmt.Errorf("too many requests: %w", api.ErrRateLimited)

// MapError classifies err. fallback is used for ERR000.
func MapError(err error, fallback string) UserMessage {
	var vErr *leads.ValidationError
	switch {
	case errors.As(err, &vErr):
		return UserMessage{Message: vErr.Message, Code: CodeValidation}
	case errors.Is(err, api.ErrUnauthorized):
		return UserMessage{Message: "Sessão expirada", Action: "Faça login novamente", Code: CodeUnauthorized}
	case errors.Is(err, api.ErrRateLimited):
		return UserMessage{Message: MsgRateLimited, Code: CodeRateLimited}
	case errors.Is(err, dashboard.ErrProtectedAdmin):
		return UserMessage{Message: MsgProtected, Code: CodeProtected}
	case errors.Is(err, leads.ErrNothingToExport):
		return UserMessage{Message: MsgNothing, Code: CodeNothing}
	case errors.Is(err, dashboard.ErrUnknownRecord), errors.Is(err, api.ErrNotFound):
		return UserMessage{Message: MsgNotFound, Code: CodeNotFound}
	case errors.Is(err, dashboard.ErrTooManyImports):
		return UserMessage{Message: MsgBusy, Code: CodeBusy}
	case errors.Is(err, context.DeadlineExceeded):
		return UserMessage{Message: MsgTimeout, Action: "Tente novamente", Code: CodeTimeout}
	}
	if msg, ok := api.Message(err); ok {
		return UserMessage{Message: msg, Code: CodeAPI}
	}
	return UserMessage{Message: fallback, Code: CodeUnknown}
}

// respondError logs err and writes a JSON or HTML error page.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int, fallback string) {
	msg := MapError(err, fallback)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
		return
	}
	s.render(w, r, status, templates.ErrorPage(templates.ErrorView{
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}))
}

// wantsJSON checks if the client prefers JSON.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
