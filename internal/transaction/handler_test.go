package transaction_test

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	errors "github.com/frahmantamala/partner-transaction/internal"
	"github.com/frahmantamala/partner-transaction/internal/transaction"
	"github.com/frahmantamala/partner-transaction/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	err error
}

func (s *stubService) Submit(context.Context, *transaction.TransactionRequest) (*transaction.Quote, error) {
	return nil, s.err
}

var _ = Describe("Transaction Handler", func() {
	var (
		handler *transaction.Handler
		now     time.Time
	)

	BeforeEach(func() {
		now = time.Date(2024, 8, 15, 2, 11, 22, 0, time.UTC)
		service := transaction.NewService(testRegistry(), nil, testLogger,
			transaction.WithClock(func() time.Time { return now }))
		handler = transaction.NewHandler(&transport.BaseHandler{Logger: testLogger}, service)
	})

	post := func(body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/submittrxmessage", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.SubmitTransaction(w, req)
		return w
	}

	decodeError := func(w *httptest.ResponseRecorder) transaction.ErrorResponse {
		var resp transaction.ErrorResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp
	}

	It("returns the priced result for a valid submission", func() {
		body, err := json.Marshal(signedRequest(googleKey, googleSecret, "FG-00001", 60000, now))
		Expect(err).NotTo(HaveOccurred())

		w := post(body)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var resp map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp).To(HaveKeyWithValue("result", BeNumerically("==", 1)))
		Expect(resp).To(HaveKeyWithValue("totalamount", BeNumerically("==", 60000)))
		Expect(resp).To(HaveKeyWithValue("totaldiscount", BeNumerically("==", 4200)))
		Expect(resp).To(HaveKeyWithValue("finalamount", BeNumerically("==", 55800)))
		Expect(resp).NotTo(HaveKey("resultmessage"))
	})

	It("renders fractional amounts as JSON numbers", func() {
		body, _ := json.Marshal(signedRequest(googleKey, googleSecret, "FG-00002", 50101, now))

		w := post(body)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"totaldiscount":7515.15`))
		Expect(w.Body.String()).To(ContainSubstring(`"finalamount":42585.85`))

		var resp transaction.SuccessResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Result).To(Equal(transaction.ResultSuccess))
		Expect(resp.FinalAmount.String()).To(Equal("42585.85"))
	})

	It("binds field names case-insensitively", func() {
		signed := signedRequest(peopleKey, peopleSecret, "FP-1", 60000, now)
		body := []byte(`{"PartnerKey":"` + signed.PartnerKey +
			`","PartnerRefNo":"` + signed.PartnerRefNo +
			`","PartnerPassword":"` + signed.PartnerPassword +
			`","TotalAmount":60000,"Timestamp":"` + signed.Timestamp +
			`","Sig":"` + signed.Sig + `"}`)

		w := post(body)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("lists every validation message in one response", func() {
		w := post([]byte(`{"partnerkey":"FAKEGOOGLE","partnerpassword":"RkFLRVBBU1NXT1JEMTIzNA==","totalamount":0,"timestamp":"` +
			now.Format(time.RFC3339) + `","sig":"x"}`))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		resp := decodeError(w)
		Expect(resp.Result).To(Equal(transaction.ResultFailed))
		Expect(resp.ResultMessage).To(Equal("partnerrefno is required., Invalid Total Amount."))
	})

	It("answers a signature mismatch with Access Denied", func() {
		signed := signedRequest(googleKey, googleSecret, "FG-00003", 60000, now)
		signed.Sig = strings.Repeat("A", 43) + "="
		body, _ := json.Marshal(signed)

		w := post(body)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w)).To(Equal(transaction.ErrorResponse{Result: 0, ResultMessage: "Access Denied!"}))
	})

	It("rejects a body that is not JSON", func() {
		w := post([]byte(`partnerkey=FAKEGOOGLE`))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).ResultMessage).To(Equal(transaction.MsgInvalidRequestBody))
	})

	It("rejects a body with the wrong field types", func() {
		w := post([]byte(`{"totalamount":"sixty"}`))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).ResultMessage).To(Equal(transaction.MsgInvalidRequestBody))
	})

	It("hides unexpected failures behind a generic 500", func() {
		handler = transaction.NewHandler(nil, &stubService{err: stderrors.New("registry exploded")})

		w := post([]byte(`{}`))
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(decodeError(w).ResultMessage).To(Equal(transaction.MsgInternalError))
	})

	It("hides internal application errors too", func() {
		handler = transaction.NewHandler(nil, &stubService{err: errors.NewInternalError("db down", nil)})

		w := post([]byte(`{}`))
		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(decodeError(w).ResultMessage).To(Equal(transaction.MsgInternalError))
	})
})
