package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"thulasibloom/internal/handlers"
	"thulasibloom/internal/middleware"
	"thulasibloom/internal/models"
	"thulasibloom/internal/repositories"
	"thulasibloom/internal/services"
	"thulasibloom/pkg/payload"
)

const testSecretKey = "thulasibloom-secret-key-2024"

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	log.SetOutput(os.Stderr)
	os.Exit(code)
}

// setupApp wires the full API against a fresh in-memory database, mirroring
// the production wiring.
func setupApp(t *testing.T) (*fiber.App, *payload.Codec) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.Address{},
		&models.Notification{},
		&models.EmailJob{},
		&models.User{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	userCartRepo := repositories.NewGORMCartRepository(db)
	guestCartRepo := repositories.NewMemoryCartRepository()
	orderRepo := repositories.NewGORMOrderRepository(db)
	notifyRepo := repositories.NewGORMNotificationRepository(db)
	addressRepo := repositories.NewGORMAddressRepository(db)
	emailJobRepo := repositories.NewGORMEmailJobRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	codec := payload.NewCodec(testSecretKey)

	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(userCartRepo, guestCartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, notifyRepo, codec)
	addressService := services.NewAddressService(addressRepo)
	emailService := services.NewEmailService(emailJobRepo, "orders@thulasibloom.example")
	checkoutService := services.NewCheckoutService(cartService, orderService, addressService,
		emailService, codec, "+91 98765 00000")
	authService := services.NewAuthService(userRepo, "test-jwt-secret")

	if err := productService.SeedCatalog(); err != nil {
		t.Fatalf("Failed to seed catalog: %v", err)
	}

	app := fiber.New()
	api := app.Group("/api")

	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewProductHandler(productService).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService, emailService).RegisterRoutes(api)

	sessionRoutes := api.Group("", middleware.Session(authService))
	handlers.NewCartHandler(cartService).RegisterRoutes(sessionRoutes)
	handlers.NewCheckoutHandler(checkoutService).RegisterRoutes(sessionRoutes)

	protectedRoutes := api.Group("", middleware.AuthRequired(authService))
	handlers.NewAddressHandler(addressService).RegisterRoutes(protectedRoutes)

	handlers.NewHealthHandler().RegisterRoutes(api)

	return app, codec
}

// request performs one in-process HTTP request and decodes the JSON body into
// a generic map.
func request(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		assert.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func encrypt(t *testing.T, codec *payload.Codec, plain string) string {
	t.Helper()
	out, err := codec.Encrypt(plain)
	assert.NoError(t, err)
	return out
}

func encryptedCustomer(t *testing.T, codec *payload.Codec) map[string]interface{} {
	return map[string]interface{}{
		"name":    "Priya S",
		"email":   encrypt(t, codec, "priya@example.com"),
		"phone":   encrypt(t, codec, "9876543210"),
		"address": encrypt(t, codec, "12 Gandhi Street, Chennai 600001"),
	}
}

func TestHealthCheck(t *testing.T) {
	app, _ := setupApp(t)

	status, body := request(t, app, http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "ThulasiBloom server is running", body["message"])
	assert.NotEmpty(t, body["time"])
}

func TestGetProducts(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	assert.Len(t, products, 3)

	byID := map[string]map[string]interface{}{}
	for _, p := range products {
		byID[p["id"].(string)] = p
	}
	assert.Equal(t, true, byID["healthmix"]["available"])
	pricing := byID["healthmix"]["pricing"].(map[string]interface{})
	assert.Equal(t, 110.0, pricing["250g"])

	// The coming-soon product has no tiers and is not purchasable.
	assert.Equal(t, false, byID["womens-healthmix"]["available"])
}

func TestCartFlowForGuestSession(t *testing.T) {
	app, _ := setupApp(t)
	headers := map[string]string{middleware.SessionHeader: "guest-session-abc"}

	add := map[string]interface{}{"product_id": "healthmix", "weight": "250g"}
	status, body := request(t, app, http.MethodPost, "/api/cart/", add, headers)
	assert.Equal(t, http.StatusOK, status)
	itemID := body["id"].(string)

	// Same (product, weight): the line is upserted, not duplicated.
	status, body = request(t, app, http.MethodPost, "/api/cart/", add, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, itemID, body["id"])

	status, body = request(t, app, http.MethodGet, "/api/cart/", nil, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 220.0, body["total"])
	assert.Equal(t, 2.0, body["count"])
	assert.Len(t, body["items"].([]interface{}), 1)

	// Zero quantity is rejected with the storefront's message.
	status, body = request(t, app, http.MethodPut, "/api/cart/"+itemID,
		map[string]interface{}{"quantity": 0}, headers)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Quantity must be at least 1", body["error"])

	// The cart is untouched after the rejection.
	status, body = request(t, app, http.MethodGet, "/api/cart/", nil, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2.0, body["count"])

	// Another session does not see this cart.
	otherHeaders := map[string]string{middleware.SessionHeader: "guest-session-xyz"}
	status, body = request(t, app, http.MethodGet, "/api/cart/", nil, otherHeaders)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["items"])

	status, _ = request(t, app, http.MethodDelete, "/api/cart/"+itemID, nil, headers)
	assert.Equal(t, http.StatusOK, status)
	status, body = request(t, app, http.MethodGet, "/api/cart/", nil, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0.0, body["total"])
}

func TestAddToCartRejectsUnavailableProduct(t *testing.T) {
	app, _ := setupApp(t)
	headers := map[string]string{middleware.SessionHeader: "guest-session-abc"}

	status, _ := request(t, app, http.MethodPost, "/api/cart/",
		map[string]interface{}{"product_id": "womens-healthmix", "weight": "250g"}, headers)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = request(t, app, http.MethodPost, "/api/cart/",
		map[string]interface{}{"product_id": "healthmix"}, headers)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestValidateAddressEndpoint(t *testing.T) {
	app, _ := setupApp(t)
	headers := map[string]string{middleware.SessionHeader: "guest-session-abc"}

	valid := map[string]interface{}{
		"name":         "Priya S",
		"phone":        "9876543210",
		"addressLine1": "12 Gandhi Street",
		"city":         "Chennai",
		"state":        "Tamil Nadu",
		"pincode":      "600001",
	}
	status, body := request(t, app, http.MethodPost, "/api/validate-address", valid, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	invalid := map[string]interface{}{
		"name":         "Priya S",
		"phone":        "9876543210",
		"addressLine1": "12 Gandhi Street",
		"city":         "Chennai",
		"state":        "Tamil Nadu",
		"pincode":      "12345",
	}
	status, body = request(t, app, http.MethodPost, "/api/validate-address", invalid, headers)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	fieldErrors := body["errors"].(map[string]interface{})
	assert.Equal(t, "Pincode must be 6 digits", fieldErrors["pincode"])
}

func TestCreateOrderEndpoint(t *testing.T) {
	app, codec := setupApp(t)

	order := map[string]interface{}{
		"customer": encryptedCustomer(t, codec),
		"items": []map[string]interface{}{
			{"product_id": "healthmix", "name": "Health Mix", "weight": "250g", "price": 110, "quantity": 2},
		},
		"total":         220,
		"paymentMethod": "cod",
	}
	status, body := request(t, app, http.MethodPost, "/api/orders/", order, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Order placed successfully", body["message"])
	orderID := body["orderId"].(string)
	assert.NotEmpty(t, orderID)

	// The stored order is readable with decrypted customer fields.
	status, body = request(t, app, http.MethodGet, "/api/orders/"+orderID, nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "priya@example.com", body["customer_email"])
	assert.Equal(t, "pending", body["status"])
}

func TestCreateOrderRejectsTamperedPayload(t *testing.T) {
	app, codec := setupApp(t)

	customer := encryptedCustomer(t, codec)
	customer["email"] = "not-ciphertext"
	order := map[string]interface{}{
		"customer": customer,
		"items": []map[string]interface{}{
			{"product_id": "healthmix", "name": "Health Mix", "weight": "250g", "price": 110, "quantity": 1},
		},
		"total":         110,
		"paymentMethod": "cod",
	}
	status, body := request(t, app, http.MethodPost, "/api/orders/", order, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid encrypted data", body["error"])
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	app, codec := setupApp(t)

	order := map[string]interface{}{
		"customer": encryptedCustomer(t, codec),
		"items": []map[string]interface{}{
			{"product_id": "healthmix", "name": "Health Mix", "weight": "250g", "price": 110, "quantity": 1},
		},
		"total":         110,
		"paymentMethod": "cod",
	}
	status, body := request(t, app, http.MethodPost, "/api/orders/", order, nil)
	assert.Equal(t, http.StatusOK, status)
	orderID := body["orderId"].(string)

	status, _ = request(t, app, http.MethodPatch, "/api/orders/"+orderID+"/status",
		map[string]interface{}{"status": "shipped"}, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = request(t, app, http.MethodGet, "/api/orders/"+orderID, nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "shipped", body["status"])

	status, _ = request(t, app, http.MethodPatch, "/api/orders/"+orderID+"/status",
		map[string]interface{}{"status": "teleported"}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestNotifyEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	status, body := request(t, app, http.MethodPost, "/api/notify", map[string]interface{}{
		"product_id":   "womens-healthmix",
		"product_name": "Women's Health Mix",
		"email":        "priya@example.com",
	}, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["id"])

	// Without any contact channel the request is rejected.
	status, _ = request(t, app, http.MethodPost, "/api/notify", map[string]interface{}{
		"product_id":   "womens-healthmix",
		"product_name": "Women's Health Mix",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCheckoutCashOnDelivery(t *testing.T) {
	app, codec := setupApp(t)
	headers := map[string]string{middleware.SessionHeader: "guest-checkout-1"}

	status, _ := request(t, app, http.MethodPost, "/api/cart/",
		map[string]interface{}{"product_id": "healthmix", "weight": "500g"}, headers)
	assert.Equal(t, http.StatusOK, status)

	status, body := request(t, app, http.MethodPost, "/api/checkout", map[string]interface{}{
		"channel":  "cod",
		"customer": encryptedCustomer(t, codec),
	}, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "succeeded", body["state"])
	assert.NotEmpty(t, body["orderId"])

	// The cart is cleared after the order is durably recorded.
	status, body = request(t, app, http.MethodGet, "/api/cart/", nil, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0.0, body["count"])
}

func TestCheckoutOnlineRequiresPaymentReference(t *testing.T) {
	app, codec := setupApp(t)
	headers := map[string]string{middleware.SessionHeader: "guest-checkout-2"}

	status, _ := request(t, app, http.MethodPost, "/api/cart/",
		map[string]interface{}{"product_id": "healthmix", "weight": "250g"}, headers)
	assert.Equal(t, http.StatusOK, status)

	status, _ = request(t, app, http.MethodPost, "/api/checkout", map[string]interface{}{
		"channel":  "online",
		"customer": encryptedCustomer(t, codec),
	}, headers)
	assert.Equal(t, http.StatusBadRequest, status)

	// Cart is preserved for retry.
	status, body := request(t, app, http.MethodGet, "/api/cart/", nil, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["count"])

	status, body = request(t, app, http.MethodPost, "/api/checkout", map[string]interface{}{
		"channel":   "online",
		"customer":  encryptedCustomer(t, codec),
		"paymentId": "pay_abc123",
	}, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "succeeded", body["state"])
}

func TestCheckoutWhatsAppHandoff(t *testing.T) {
	app, codec := setupApp(t)
	headers := map[string]string{middleware.SessionHeader: "guest-checkout-3"}

	status, _ := request(t, app, http.MethodPost, "/api/cart/",
		map[string]interface{}{"product_id": "millet-healthmix", "weight": "250g"}, headers)
	assert.Equal(t, http.StatusOK, status)

	status, body := request(t, app, http.MethodPost, "/api/checkout", map[string]interface{}{
		"channel":  "whatsapp",
		"customer": encryptedCustomer(t, codec),
	}, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "succeeded", body["state"])
	assert.Contains(t, body["whatsappUrl"], "https://wa.me/919876500000?text=")

	// No order row on the handoff path, but the cart is cleared.
	status, body = request(t, app, http.MethodGet, "/api/cart/", nil, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0.0, body["count"])
}

func TestCheckoutRejectsInvalidStructuredAddress(t *testing.T) {
	app, codec := setupApp(t)
	headers := map[string]string{middleware.SessionHeader: "guest-checkout-4"}

	status, _ := request(t, app, http.MethodPost, "/api/cart/",
		map[string]interface{}{"product_id": "healthmix", "weight": "250g"}, headers)
	assert.Equal(t, http.StatusOK, status)

	status, body := request(t, app, http.MethodPost, "/api/checkout", map[string]interface{}{
		"channel":  "cod",
		"customer": encryptedCustomer(t, codec),
		"address": map[string]interface{}{
			"name":         "Priya S",
			"phone":        "9876543210",
			"addressLine1": "12 Gandhi Street",
			"city":         "Chennai",
			"state":        "Tamil Nadu",
			"pincode":      "12345",
		},
	}, headers)
	assert.Equal(t, http.StatusBadRequest, status)
	fieldErrors := body["errors"].(map[string]interface{})
	assert.Equal(t, "Pincode must be 6 digits", fieldErrors["pincode"])

	status, body = request(t, app, http.MethodGet, "/api/cart/", nil, headers)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, body["count"])
}

func TestAddressBookRequiresAuthentication(t *testing.T) {
	app, _ := setupApp(t)

	status, _ := request(t, app, http.MethodGet, "/api/addresses/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterLoginAndAddressBook(t *testing.T) {
	app, _ := setupApp(t)

	status, _ := request(t, app, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"name":     "Priya S",
		"email":    "priya@example.com",
		"phone":    "9876543210",
		"Password": "password123",
	}, nil)
	assert.Equal(t, http.StatusCreated, status)

	status, body := request(t, app, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "priya@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusOK, status)
	token := body["token"].(string)
	assert.NotEmpty(t, token)

	authHeaders := map[string]string{"Authorization": "Bearer " + token}
	status, body = request(t, app, http.MethodPost, "/api/addresses/", map[string]interface{}{
		"name":         "Priya S",
		"phone":        "9876543210",
		"addressLine1": "12 Gandhi Street",
		"city":         "Chennai",
		"state":        "Tamil Nadu",
		"pincode":      "600001",
	}, authHeaders)
	assert.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["id"])

	req := httptest.NewRequest(http.MethodGet, "/api/addresses/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var addresses []map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&addresses))
	assert.Len(t, addresses, 1)
	assert.Equal(t, "600001", addresses[0]["pincode"])
}
