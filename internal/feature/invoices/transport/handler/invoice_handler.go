// Package handler はpurchase invoicesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fluxfinance/internal/feature/invoices/domain"
	"fluxfinance/internal/feature/invoices/domain/entity"
	"fluxfinance/internal/feature/invoices/transport/http/dto"
	"fluxfinance/internal/platform/gate"
)

const (
	msgCreated        = "Purchase invoice created successfully"
	msgCreateError    = "An error occurred while creating the purchase invoice"
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid invoice id"
	msgNotFound       = "purchase invoice not found"
)

// Currencies はモーダルの通貨セレクトに表示する通貨コードです。
var Currencies = []string{"EUR", "USD", "GBP", "CHF", "SEK", "JPY"}

// InvoiceUsecase は請求書操作のユースケースを定義します。
type InvoiceUsecase interface {
	Create(ctx context.Context, draft entity.InvoiceDraft) (*entity.PurchaseInvoice, error)
	List(ctx context.Context) ([]entity.PurchaseInvoice, error)
	Get(ctx context.Context, id uint) (*entity.PurchaseInvoice, error)
}

// InvoiceHandler は/purchase-invoices配下のHTTPリクエストを処理します。
type InvoiceHandler struct {
	invoices InvoiceUsecase
}

// NewInvoiceHandler はInvoiceHandlerの新しいインスタンスを生成します。
func NewInvoiceHandler(invoices InvoiceUsecase) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// List は請求書一覧をHTMLページまたはJSONで返します。
// 取得に失敗した場合はエラーハンドラーに委ねます。
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoices.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	if gate.WantsJSON(c.Request) {
		c.JSON(http.StatusOK, dto.FromEntities(invoices))
		return
	}
	c.HTML(http.StatusOK, "purchase-invoices.tmpl", gin.H{
		"Title":          "Purchase invoices",
		"Invoices":       invoices,
		"PaymentMethods": entity.PaymentMethods,
		"Currencies":     Currencies,
		"Authenticated":  gate.IsAuthenticated(c),
	})
}

// Create は新しい請求書を登録します。
// - JSONまたはフォームをバインド（失敗時は400）
// - 入力検証エラーは400、ストア障害は500
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("purchase invoice binding failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidRequest})
		return
	}

	invoice, err := h.invoices.Create(c.Request.Context(), req.ToDraft())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInvoice) {
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: validationMessage(err)})
			return
		}
		slog.Error("failed to create purchase invoice", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgCreateError})
		return
	}

	slog.Info("purchase invoice created", "id", invoice.ID, "invoice_number", invoice.InvoiceNumber)
	c.JSON(http.StatusOK, dto.CreateInvoiceRes{Success: true, Message: msgCreated, ID: invoice.ID})
}

// Get は1件の請求書をJSONで返します。
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidID})
		return
	}

	invoice, err := h.invoices.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: msgNotFound})
			return
		}
		_ = c.Error(err)
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, dto.FromEntity(*invoice))
}

// validationMessage は "invalid invoice: quantity must be greater than 0" から
// 利用者向けの後半部分だけを取り出します。
func validationMessage(err error) string {
	prefix := domain.ErrInvalidInvoice.Error() + ": "
	msg := err.Error()
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
