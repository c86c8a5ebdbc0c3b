package internal_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/frahmantamala/partner-transaction/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("joins validation messages with a comma and a space", func() {
		appErr := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "partnerkey", Message: "partnerkey is required."},
				{Field: "totalamount", Message: "Invalid Total Amount."},
			}})

		Expect(appErr.GetDetailedMessage()).To(Equal("partnerkey is required., Invalid Total Amount."))
		Expect(appErr.Error()).To(Equal("partnerkey is required."))
	})

	It("falls back to its own message", func() {
		appErr := internal.NewAccessDeniedError("Access Denied!")
		Expect(appErr.Messages()).To(Equal([]string{"Access Denied!"}))
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("is found through wrapping", func() {
		wrapped := fmt.Errorf("submit: %w", internal.NewAccessDeniedError("Access Denied!"))
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeAccessDenied))

		_, ok = internal.IsAppError(fmt.Errorf("plain"))
		Expect(ok).To(BeFalse())
	})

	It("keeps the cause out of its JSON form", func() {
		appErr := internal.NewInternalError("boom", fmt.Errorf("secret detail"))
		Expect(appErr.Error()).To(ContainSubstring("secret detail"))

		Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
		encoded, err := json.Marshal(appErr)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(encoded)).NotTo(ContainSubstring("secret detail"))
	})
})

var _ = Describe("Request time", func() {
	It("round-trips through the context in UTC", func() {
		local := time.Date(2024, 8, 15, 9, 11, 22, 0, time.FixedZone("WIB", 7*60*60))
		ctx := internal.ContextWithRequestTime(context.Background(), local)

		got, ok := internal.RequestTimeFromContext(ctx)
		Expect(ok).To(BeTrue())
		Expect(got.Location()).To(Equal(time.UTC))
		Expect(got.Equal(local)).To(BeTrue())
	})

	It("reports absence", func() {
		_, ok := internal.RequestTimeFromContext(context.Background())
		Expect(ok).To(BeFalse())
	})

	It("defaults timeouts to five seconds", func() {
		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()
		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("~", 5*time.Second, time.Second))
	})
})
