package transaction

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/partner-transaction/internal"
	"github.com/frahmantamala/partner-transaction/internal/transport"
)

type ServiceAPI interface {
	Submit(ctx context.Context, req *TransactionRequest) (*Quote, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	if base == nil {
		base = transport.NewBaseHandler(nil)
	}
	return &Handler{
		BaseHandler: base,
		Service:     service,
	}
}

func (h *Handler) SubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := h.DecodeJSON(w, r, &req); err != nil {
		h.Logger.Info("SubmitTransaction: invalid request body", "error", err)
		h.WriteJSON(w, http.StatusBadRequest, NewErrorResponse(MsgInvalidRequestBody))
		return
	}

	quote, err := h.Service.Submit(r.Context(), &req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewSuccessResponse(quote))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok || appErr.Type == errors.ErrorTypeInternal {
		h.Logger.Error("SubmitTransaction: service error", "error", err)
		h.WriteJSON(w, http.StatusInternalServerError, NewErrorResponse(MsgInternalError))
		return
	}
	h.WriteJSON(w, appErr.StatusCode, NewErrorResponse(appErr.GetDetailedMessage()))
}
