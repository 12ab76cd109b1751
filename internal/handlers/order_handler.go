package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"thulasibloom/internal/models"
	"thulasibloom/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for the order/notification log and the
// order email endpoint.
type OrderHandler struct {
	orders *services.OrderService
	email  *services.EmailService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, email *services.EmailService) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		email:  email,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)

	router.Post("/send-order-email", h.HandleSendOrderEmail)
	router.Post("/notify", h.HandleNotify)
	router.Get("/notifications", h.HandleGetNotifications)
}

// HandleGetOrders retrieves all orders, newest first, with decoded item
// snapshots.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.orders.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}

	out := make([]fiber.Map, 0, len(orders))
	for _, order := range orders {
		items, err := order.Items()
		if err != nil {
			log.Printf("Error decoding items for order %s: %v", order.ID, err)
			continue
		}
		out = append(out, fiber.Map{
			"id":               order.ID,
			"customer_name":    order.CustomerName,
			"customer_email":   order.CustomerEmail,
			"customer_phone":   order.CustomerPhone,
			"customer_address": order.CustomerAddress,
			"total_amount":     order.TotalAmount,
			"order_items":      items,
			"payment_method":   order.PaymentMethod,
			"payment_id":       order.PaymentID,
			"status":           order.Status,
			"created_at":       order.CreatedAt,
		})
	}
	return c.JSON(out)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orders.GetOrderByID(orderID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleCreateOrder records a new order. Customer contact fields arrive
// encrypted and are decrypted before storage.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.orders.RecordOrder(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDecryptFailed):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid encrypted data",
			})
		case errors.Is(err, services.ErrMissingCustomer):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "All customer details are required",
			})
		case errors.Is(err, services.ErrEmptyOrder):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Order must contain items",
			})
		default:
			log.Printf("Error creating order: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not create order",
				"error":   err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Order placed successfully",
		"orderId": order.ID,
	})
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	if err := h.orders.UpdateOrderStatus(orderID, updateData.Status); err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "invalid order status") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order update failed: %v", err.Error()),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status),
	})
}

// sendOrderEmailRequest mirrors the order summary payload sent by the
// checkout form's email tab.
type sendOrderEmailRequest struct {
	Customer struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		AddressLine1 string `json:"addressLine1"`
		AddressLine2 string `json:"addressLine2"`
		City         string `json:"city"`
		State        string `json:"state"`
		Pincode      string `json:"pincode"`
		Landmark     string `json:"landmark"`
	} `json:"customer"`
	Items         []models.OrderItem `json:"items"`
	Total         float64            `json:"total"`
	PaymentMethod string             `json:"paymentMethod"`
	OrderDate     time.Time          `json:"orderDate"`
}

// HandleSendOrderEmail enqueues an order summary for email delivery by the
// background relay.
func (h *OrderHandler) HandleSendOrderEmail(c *fiber.Ctx) error {
	var req sendOrderEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	in := services.OrderEmailInput{
		CustomerName:  req.Customer.Name,
		CustomerEmail: req.Customer.Email,
		CustomerPhone: req.Customer.Phone,
		AddressLine1:  req.Customer.AddressLine1,
		AddressLine2:  req.Customer.AddressLine2,
		City:          req.Customer.City,
		State:         req.Customer.State,
		Pincode:       req.Customer.Pincode,
		Landmark:      req.Customer.Landmark,
		Items:         req.Items,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		OrderDate:     req.OrderDate,
	}

	job, err := h.email.EnqueueOrderSummary(in)
	if err != nil {
		log.Printf("Error enqueueing order email: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not queue order email",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order details queued for processing",
		"jobId":   job.ID,
	})
}

// HandleNotify captures a back-in-stock notification request.
func (h *OrderHandler) HandleNotify(c *fiber.Ctx) error {
	var req services.NotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	notification, err := h.orders.RecordNotification(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) ||
			strings.Contains(err.Error(), "required") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Printf("Error saving notification request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save notification request",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Notification request saved",
		"id":      notification.ID,
	})
}

// HandleGetNotifications lists captured notification requests, newest first.
func (h *OrderHandler) HandleGetNotifications(c *fiber.Ctx) error {
	notifications, err := h.orders.GetAllNotifications()
	if err != nil {
		log.Printf("Error getting notifications: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve notifications",
			"error":   err.Error(),
		})
	}
	return c.JSON(notifications)
}
