//go:build unit

package api_test

import (
	"log/slog"
	"net/http"
	"testing"

	"houseboat-booking/internal/domain/booking"
	"houseboat-booking/internal/handler/api"
	resdto "houseboat-booking/internal/handler/dto/response"
	"houseboat-booking/internal/handler/middleware"
	"houseboat-booking/internal/pkg/errs"
	"houseboat-booking/internal/usecase/commands"
	"houseboat-booking/internal/usecase/queries"
	"houseboat-booking/tests/common/builder"
	"houseboat-booking/tests/common/httptest"
	commandsmock "houseboat-booking/tests/mock/commands"
	queriesmock "houseboat-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AdminBookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
}

func (s *AdminBookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler(slog.New(slog.DiscardHandler)))

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	handler := api.NewAdminBookingHandler(s.mockCommands, s.mockQueries)

	g := s.router.Group("/api/admin")
	g.GET("/bookings", handler.List)
	g.PATCH("/bookings/:id/status", handler.UpdateStatus)
}

func (s *AdminBookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAdminBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminBookingHandlerTestSuite))
}

func (s *AdminBookingHandlerTestSuite) TestList() {
	view := builder.NewBookingBuilder().BuildView()

	s.Run("success: builds the filter from the query", func() {
		boatID := uuid.New()
		status := booking.StatusConfirmed
		s.mockQueries.EXPECT().
			ListAll(gomock.Any(), queries.BookingFilter{Status: &status, BoatID: &boatID}, nil, 0).
			Return(&queries.BookingPage{Items: []*queries.BookingView{view}}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/bookings?status=CONFIRMED&boatId="+boatID.String(), nil, "")

		var body resdto.BookingPageResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 1)
		s.Nil(body.NextCursor)
	})

	s.Run("success: no filter", func() {
		s.mockQueries.EXPECT().
			ListAll(gomock.Any(), queries.BookingFilter{}, nil, 0).
			Return(&queries.BookingPage{Items: []*queries.BookingView{}}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/bookings", nil, "")

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"items":[]}`, rec.Body.String())
	})

	s.Run("error: unknown status", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/bookings?status=ARCHIVED", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
	})

	s.Run("error: malformed boat id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/bookings?boatId=abc", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
	})
}

func (s *AdminBookingHandlerTestSuite) TestUpdateStatus() {
	view := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) { b.Status = booking.StatusConfirmed }).BuildView()
	url := "/api/admin/bookings/" + view.ID.String() + "/status"

	s.Run("success: passes status and message", func() {
		s.mockCommands.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.UpdateStatusInput) (*queries.BookingView, error) {
				s.Equal(view.ID, in.BookingID)
				s.Equal("CONFIRMED", in.Status)
				s.Require().NotNil(in.Message)
				s.Equal("See you at the ghat", *in.Message)
				return view, nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"status": "CONFIRMED", "message": "See you at the ghat"}, "")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("CONFIRMED", body.Status)
	})

	s.Run("error: missing status", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: use case failures", func() {
		cases := []struct {
			name    string
			err     error
			code    int
			message string
		}{
			{name: "unknown status", err: errs.Invalid("invalid booking status"), code: http.StatusBadRequest, message: "invalid booking status"},
			{name: "terminal", err: &errs.TransitionError{From: "CANCELLED", To: "CONFIRMED"}, code: http.StatusConflict, message: "from CANCELLED to CONFIRMED"},
			{name: "capacity", err: &errs.CapacityError{Kind: errs.ErrCapacityNoLongerAvail, RoomType: "AC Double"}, code: http.StatusConflict, message: "no longer available"},
			{name: "not found", err: errs.ErrBookingNotFound, code: http.StatusNotFound, message: "Booking not found"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(nil, tc.err)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"status": "CONFIRMED"}, "")

				httptest.AssertErrorResponse(s.T(), rec, tc.code, tc.message)
			})
		}
	})
}

// ================================================================================
// Availability and payment callback handlers
// ================================================================================

type PublicHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockCtrl         *gomock.Controller
	mockCommands     *commandsmock.MockBookingCommands
	mockAvailability *queriesmock.MockAvailabilityQueries
}

func (s *PublicHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler(slog.New(slog.DiscardHandler)))

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockAvailability = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)

	s.router.GET("/api/boats/:id/availability", api.NewAvailabilityHandler(s.mockAvailability).Check)
	s.router.POST("/api/payments/callback", api.NewPaymentHandler(s.mockCommands).Callback)
}

func (s *PublicHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPublicHandlerSuite(t *testing.T) {
	suite.Run(t, new(PublicHandlerTestSuite))
}

func (s *PublicHandlerTestSuite) TestAvailability() {
	b := builder.NewBookingBuilder()
	url := "/api/boats/" + b.BoatID.String() + "/availability?checkIn=2025-06-01&checkOut=2025-06-03"

	s.Run("success", func() {
		view := b.BuildAvailabilityView(map[string]booking.Availability{
			"AC Double": {Total: 2, Booked: 1, Available: 1},
			"Deluxe":    {Total: 1, Booked: 0, Available: 1},
		})
		s.mockAvailability.EXPECT().Check(gomock.Any(), b.BoatID, "2025-06-01", "2025-06-03").Return(view, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(b.BoatID, body.BoatID)
		s.Equal(2, body.Nights)
		s.Equal("2025-06-01", body.CheckIn)
		s.Equal(booking.Availability{Total: 2, Booked: 1, Available: 1}, body.Rooms["AC Double"])
	})

	s.Run("error: missing dates", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/boats/"+b.BoatID.String()+"/availability", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "checkIn and checkOut are required")
	})

	s.Run("error: invalid boat id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/boats/x/availability?checkIn=2025-06-01&checkOut=2025-06-03", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid boat id")
	})

	s.Run("error: unknown boat", func() {
		s.mockAvailability.EXPECT().Check(gomock.Any(), b.BoatID, "2025-06-01", "2025-06-03").Return(nil, errs.ErrBoatNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Boat not found")
	})
}

func (s *PublicHandlerTestSuite) TestPaymentCallback() {
	url := "/api/payments/callback"

	s.Run("success", func() {
		s.mockCommands.EXPECT().HandlePaymentCallback(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.PaymentCallbackInput) error {
				s.Equal("pay_1", in.PaymentID)
				s.Equal("success", in.Status)
				s.Require().NotNil(in.TransactionID)
				s.Equal("txn_9", *in.TransactionID)
				return nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"paymentId": "pay_1", "status": "success", "transactionId": "txn_9"}, "")

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"success":true}`, rec.Body.String())
	})

	s.Run("error: missing payment id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"status": "success"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: unknown payment", func() {
		s.mockCommands.EXPECT().HandlePaymentCallback(gomock.Any(), gomock.Any()).Return(errs.ErrBookingNotFound)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"paymentId": "nope", "status": "success"}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})

	s.Run("error: unknown status", func() {
		s.mockCommands.EXPECT().HandlePaymentCallback(gomock.Any(), gomock.Any()).Return(errs.Invalid("unknown payment status"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"paymentId": "pay_1", "status": "pending"}, "")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "unknown payment status")
	})
}
