package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/staybook/internal/domain"
	"github.com/zvrva/staybook/internal/service/booking"
	"github.com/zvrva/staybook/internal/service/payment"
)

type BookingHandler struct {
	bookings booking.BookingUseCase
	payments payment.PaymentUseCase
}

func NewBookingHandler(bookings booking.BookingUseCase, payments payment.PaymentUseCase) *BookingHandler {
	return &BookingHandler{bookings: bookings, payments: payments}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, auth, ownerOnly gin.HandlerFunc) {
	router.POST("/check-availability", h.checkAvailability)
	router.POST("/book", auth, h.create)
	router.GET("/user", auth, h.listForUser)
	router.GET("/hotel", auth, ownerOnly, h.hotelDashboard)
	router.POST("/stripe-payment", auth, h.stripePayment)
	router.GET("/verify-payment/:sessionId", auth, h.verifyPayment)
	router.PATCH("/:id/cancel", auth, h.cancel)
	router.GET("/:id", auth, h.get)
}

type checkAvailabilityRequest struct {
	Room         string `json:"room"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

type createBookingRequest struct {
	Room         string `json:"room"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Guests       int    `json:"guests"`
}

type bookingResponse struct {
	ID            string     `json:"id"`
	User          string     `json:"user"`
	Room          string     `json:"room"`
	Hotel         string     `json:"hotel"`
	CheckInDate   string     `json:"checkInDate"`
	CheckOutDate  string     `json:"checkOutDate"`
	Guests        int        `json:"guests"`
	TotalPrice    int64      `json:"totalPrice"`
	IsPaid        bool       `json:"isPaid"`
	IsCancelled   bool       `json:"isCancelled"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		User:          b.UserID,
		Room:          b.RoomID,
		Hotel:         b.HotelID,
		CheckInDate:   b.CheckIn.Format(dateLayout),
		CheckOutDate:  b.CheckOut.Format(dateLayout),
		Guests:        b.Guests,
		TotalPrice:    b.TotalPrice,
		IsPaid:        b.IsPaid,
		IsCancelled:   b.IsCancelled,
		PaymentMethod: b.PaymentMethod,
		PaidAt:        b.PaidAt,
		CreatedAt:     b.CreatedAt,
	}
}

func (h *BookingHandler) checkAvailability(c *gin.Context) {
	var req checkAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidation("All fields are required"))
		return
	}
	if req.Room == "" || req.CheckInDate == "" || req.CheckOutDate == "" {
		respondError(c, domain.NewValidation("All fields are required"))
		return
	}

	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		respondError(c, domain.NewValidation("Invalid check-in date"))
		return
	}
	checkOut, err := parseDate(req.CheckOutDate)
	if err != nil {
		respondError(c, domain.NewValidation("Invalid check-out date"))
		return
	}

	available, err := h.bookings.CheckAvailability(c.Request.Context(), req.Room, checkIn, checkOut)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isAvailable": available})
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidation("All fields are required"))
		return
	}
	if req.Room == "" || req.CheckInDate == "" || req.CheckOutDate == "" || req.Guests == 0 {
		respondError(c, domain.NewValidation("All fields are required"))
		return
	}

	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		respondError(c, domain.NewValidation("Invalid check-in date"))
		return
	}
	checkOut, err := parseDate(req.CheckOutDate)
	if err != nil {
		respondError(c, domain.NewValidation("Invalid check-out date"))
		return
	}

	created, err := h.bookings.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:   currentUserID(c),
		RoomID:   req.Room,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   req.Guests,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking created successfully",
		"booking": toBookingResponse(*created),
	})
}

func (h *BookingHandler) listForUser(c *gin.Context) {
	bookings, err := h.bookings.ListUserBookings(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": out})
}

func (h *BookingHandler) hotelDashboard(c *gin.Context) {
	data, err := h.bookings.HotelDashboard(c.Request.Context(), c.Query("hotelId"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(data.Bookings))
	for _, b := range data.Bookings {
		out = append(out, toBookingResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dashboardData": gin.H{
			"totalBookings": data.TotalBookings,
			"totalRevenue":  data.TotalRevenue,
			"bookings":      out,
		},
	})
}

func (h *BookingHandler) stripePayment(c *gin.Context) {
	var req struct {
		BookingID string `json:"bookingId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.BookingID == "" {
		respondError(c, domain.NewValidation("Booking ID is required"))
		return
	}

	url, err := h.payments.InitiateCheckout(c.Request.Context(), req.BookingID, c.GetHeader("Origin"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

func (h *BookingHandler) verifyPayment(c *gin.Context) {
	result, err := h.payments.VerifyPayment(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": result.Paid, "message": result.Message, "isPaid": result.Paid})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	cancelled, err := h.bookings.CancelBooking(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking cancelled",
		"booking": toBookingResponse(*cancelled),
	})
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.bookings.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "booking": toBookingResponse(*b)})
}
