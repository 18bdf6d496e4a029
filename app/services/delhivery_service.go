package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Weight assumed per item when the catalog has none, in grams.
const defaultPackageWeightGrams = 500

type ShipmentItem struct {
	Name  string  `json:"name"`
	Qty   int     `json:"quantity"`
	Price float64 `json:"price"`
}

type ShipmentRequest struct {
	OrderNumber   string
	Address       string
	City          string
	State         string
	Pincode       string
	CustomerName  string
	CustomerPhone string
	Items         []ShipmentItem
	TotalAmount   float64
	PaymentMethod string
}

// ShipmentResult is the uniform shape every adapter call collapses to:
// disabled integration, transport failure and parse failure all come
// back as Success=false with empty ids, never as an error.
type ShipmentResult struct {
	Success        bool   `json:"success"`
	CourierOrderID string `json:"courier_order_id"`
	TrackingID     string `json:"tracking_id"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

type ShipmentStatus struct {
	Status         string `json:"status"`
	StatusType     string `json:"status_type"`
	StatusLocation string `json:"status_location"`
	StatusTime     string `json:"status_time"`
	Waybill        string `json:"waybill"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
}

type CancelResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type DeliveryGateway interface {
	CreateShipment(ctx context.Context, req ShipmentRequest) ShipmentResult
	GetStatus(ctx context.Context, trackingID string) *ShipmentStatus
	CancelShipment(ctx context.Context, trackingID string) CancelResult
}

type PickupLocation struct {
	Name    string
	Phone   string
	Address string
	City    string
	State   string
	Pincode string
}

type DelhiveryService struct {
	client   *http.Client
	enabled  bool
	apiToken string
	baseURL  string
	pickup   PickupLocation
}

func NewDelhiveryService(enabled bool, apiToken, baseURL string, pickup PickupLocation) *DelhiveryService {
	if !enabled || apiToken == "" {
		zap.S().Warn("Delhivery integration not enabled or API token not configured")
	}
	return &DelhiveryService{
		client:   &http.Client{Timeout: 30 * time.Second},
		enabled:  enabled && apiToken != "",
		apiToken: apiToken,
		baseURL:  baseURL,
		pickup:   pickup,
	}
}

func (s *DelhiveryService) doRequest(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, error) {
	fullURL := s.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+s.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Delhivery API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func (s *DelhiveryService) CreateShipment(ctx context.Context, req ShipmentRequest) ShipmentResult {
	if !s.enabled {
		return ShipmentResult{
			Success: false,
			Message: "Delhivery integration not enabled",
			Status:  "pending",
		}
	}

	totalWeight := len(req.Items) * defaultPackageWeightGrams

	productsDesc := ""
	quantity := 0
	for i, item := range req.Items {
		if i > 0 {
			productsDesc += ", "
		}
		productsDesc += item.Name
		quantity += item.Qty
	}

	codAmount := 0.0
	paymentMode := "Prepaid"
	if req.PaymentMethod == "cod" {
		paymentMode = "COD"
		codAmount = req.TotalAmount
	}

	payload := map[string]interface{}{
		"shipments": []map[string]interface{}{{
			"name":          req.CustomerName,
			"order":         req.OrderNumber,
			"order_date":    time.Now().Format("2006-01-02 15:04:05"),
			"payment_mode":  paymentMode,
			"total_amount":  req.TotalAmount,
			"cod_amount":    codAmount,
			"add":           req.Address,
			"city":          req.City,
			"state":         req.State,
			"pin":           req.Pincode,
			"phone":         req.CustomerPhone,
			"country":       "India",
			"weight":        float64(totalWeight) / 1000,
			"products_desc": productsDesc,
			"quantity":      quantity,
		}},
		"pickup_location": map[string]interface{}{
			"name":    s.pickup.Name,
			"phone":   s.pickup.Phone,
			"add":     s.pickup.Address,
			"city":    s.pickup.City,
			"state":   s.pickup.State,
			"pin":     s.pickup.Pincode,
			"country": "India",
		},
	}

	body, err := s.doRequest(ctx, http.MethodPost, "/p/create", nil, payload)
	if err != nil {
		zap.S().Errorw("Delhivery shipment creation failed", "order", req.OrderNumber, "error", err)
		return ShipmentResult{Success: false, Message: err.Error(), Status: "Failed"}
	}

	var parsed struct {
		Packages []struct {
			Waybill string `json:"waybill"`
		} `json:"packages"`
		Remarks string `json:"remarks"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		zap.S().Errorw("Delhivery create response parse failed", "order", req.OrderNumber, "error", err)
		return ShipmentResult{Success: false, Message: "failed to parse Delhivery response", Status: "Failed"}
	}

	if len(parsed.Packages) > 0 && parsed.Packages[0].Waybill != "" {
		waybill := parsed.Packages[0].Waybill
		return ShipmentResult{
			Success:        true,
			Message:        "Delhivery shipment created successfully",
			CourierOrderID: waybill,
			TrackingID:     waybill,
			Status:         "In Transit",
		}
	}

	// Accepted but no waybill assigned yet; track under the order number.
	return ShipmentResult{
		Success:        true,
		Message:        "Delhivery shipment created (pending waybill assignment)",
		CourierOrderID: req.OrderNumber,
		TrackingID:     req.OrderNumber,
		Status:         "Pending",
	}
}

func (s *DelhiveryService) GetStatus(ctx context.Context, trackingID string) *ShipmentStatus {
	if !s.enabled || trackingID == "" {
		return nil
	}

	query := url.Values{}
	query.Set("waybill", trackingID)
	query.Set("verbose", "1")

	body, err := s.doRequest(ctx, http.MethodGet, "/packages/json/", query, nil)
	if err != nil {
		zap.S().Errorw("Delhivery status lookup failed", "waybill", trackingID, "error", err)
		return nil
	}

	var parsed struct {
		Data []struct {
			Waybill     string `json:"Waybill"`
			Origin      string `json:"Origin"`
			Destination string `json:"Destination"`
			Status      struct {
				Status         string `json:"Status"`
				StatusType     string `json:"StatusType"`
				StatusLocation string `json:"StatusLocation"`
				StatusDateTime string `json:"StatusDateTime"`
			} `json:"Status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		zap.S().Errorw("Delhivery status response parse failed", "waybill", trackingID, "error", err)
		return nil
	}
	if len(parsed.Data) == 0 {
		return nil
	}

	pkg := parsed.Data[0]
	status := &ShipmentStatus{
		Status:         pkg.Status.Status,
		StatusType:     pkg.Status.StatusType,
		StatusLocation: pkg.Status.StatusLocation,
		StatusTime:     pkg.Status.StatusDateTime,
		Waybill:        pkg.Waybill,
		Origin:         pkg.Origin,
		Destination:    pkg.Destination,
	}
	if status.Waybill == "" {
		status.Waybill = trackingID
	}
	return status
}

func (s *DelhiveryService) CancelShipment(ctx context.Context, trackingID string) CancelResult {
	if !s.enabled {
		return CancelResult{Success: false, Message: "Delhivery integration not enabled"}
	}

	payload := map[string]interface{}{
		"waybill":      trackingID,
		"cancellation": true,
	}

	if _, err := s.doRequest(ctx, http.MethodPost, "/packages/json/", nil, payload); err != nil {
		zap.S().Errorw("Delhivery shipment cancellation failed", "waybill", trackingID, "error", err)
		return CancelResult{Success: false, Message: err.Error()}
	}

	return CancelResult{Success: true, Message: "Shipment cancelled successfully"}
}
