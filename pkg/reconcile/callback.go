package reconcile

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Query parameters the payment provider appends to the return URL.
const (
	paramPaymentLinkID = "razorpay_payment_link_id"
	paramPaymentID     = "razorpay_payment_id"
	paramLinkStatus    = "razorpay_payment_link_status"
)

// Handler returns the HTTP surface for the payment-link return URL. The
// provider redirects the browser here after a hosted payment-link flow;
// the handler runs the payment-link reconciliation path and renders the
// outcome as JSON for the shell to display.
func (r *Reconciler) Handler() http.Handler {
	router := chi.NewRouter()
	router.Get("/callback", r.handleCallback)
	return router
}

type callbackResponse struct {
	State         State  `json:"state"`
	Message       string `json:"message"`
	RetryCheckout bool   `json:"retry_checkout,omitempty"`
	PlanName      string `json:"plan_name,omitempty"`
}

func (r *Reconciler) handleCallback(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	linkID := q.Get(paramPaymentLinkID)
	paymentID := q.Get(paramPaymentID)
	status := q.Get(paramLinkStatus)

	if linkID == "" || paymentID == "" {
		writeJSON(w, http.StatusBadRequest, callbackResponse{
			State:   StateError,
			Message: "missing payment link parameters",
		})
		return
	}

	outcome, err := r.RunLink(req.Context(), linkID, paymentID, status)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, callbackResponse{
			State:   StateError,
			Message: "reconciliation failed",
		})
		return
	}

	resp := callbackResponse{
		State:         outcome.State,
		Message:       outcome.Message,
		RetryCheckout: outcome.RetryCheckout,
	}
	if outcome.Subscription != nil {
		resp.PlanName = outcome.Subscription.PlanName
	}

	code := http.StatusOK
	if outcome.State == StateError {
		code = http.StatusUnprocessableEntity
	}
	writeJSON(w, code, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
