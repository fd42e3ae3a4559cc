package httpclient_test

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fedcatalog/source-admin/internal/httpclient"
)

var _ = Describe("HTTPError", func() {
	Describe("NewHTTPError", func() {
		It("should create HTTPError with all fields", func() {
			err := httpclient.NewHTTPError(404, "http://example.com", "Not Found")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("HTTP 404"))
			Expect(err.Error()).To(ContainSubstring("http://example.com"))
			Expect(err.Error()).To(ContainSubstring("Not Found"))
		})

		It("should format error message correctly", func() {
			err := httpclient.NewHTTPError(500, "http://ddf.example.com/services", "Internal Server Error")
			Expect(err.Error()).To(Equal("HTTP 500 for URL http://ddf.example.com/services: Internal Server Error"))
		})

		It("should handle empty message", func() {
			err := httpclient.NewHTTPError(404, "http://example.com", "")
			Expect(err.Error()).To(Equal("HTTP 404 for URL http://example.com: "))
		})
	})

	Describe("IsServerError", func() {
		DescribeTable("classifies status codes",
			func(statusCode int, expected bool) {
				err := httpclient.NewHTTPError(statusCode, "http://example.com", "")
				Expect(httpclient.IsServerError(err)).To(Equal(expected))
			},
			Entry("bad request", 400, false),
			Entry("not found", 404, false),
			Entry("internal server error", 500, true),
			Entry("bad gateway", 502, true),
			Entry("service unavailable", 503, true),
		)

		It("should unwrap wrapped errors", func() {
			err := fmt.Errorf("check failed: %w", httpclient.NewHTTPError(503, "http://example.com", ""))
			Expect(httpclient.IsServerError(err)).To(BeTrue())
		})

		It("should reject other errors", func() {
			Expect(httpclient.IsServerError(errors.New("boom"))).To(BeFalse())
			Expect(httpclient.IsServerError(nil)).To(BeFalse())
		})
	})
})
