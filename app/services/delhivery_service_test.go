package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

var testPickup = PickupLocation{
	Name:    "NextBloom",
	Phone:   "+919876543210",
	Address: "NextBloom Warehouse, Mumbai",
	City:    "Mumbai",
	State:   "Maharashtra",
	Pincode: "400001",
}

func testShipmentRequest() ShipmentRequest {
	return ShipmentRequest{
		OrderNumber:   "ORD-20250101-4F8A2C",
		Address:       "12 Marine Drive",
		City:          "Mumbai",
		State:         "Maharashtra",
		Pincode:       "400001",
		CustomerName:  "Asha",
		CustomerPhone: "+919876543210",
		Items:         []ShipmentItem{{Name: "Snake Plant", Qty: 1, Price: 3.99}},
		TotalAmount:   53.99,
		PaymentMethod: "cod",
	}
}

func TestCreateShipmentDisabled(t *testing.T) {
	svc := NewDelhiveryService(false, "", "http://unused", testPickup)

	res := svc.CreateShipment(context.Background(), testShipmentRequest())
	if res.Success {
		t.Error("disabled adapter reported success")
	}
	if res.TrackingID != "" {
		t.Errorf("tracking id = %q, want empty", res.TrackingID)
	}
}

func TestCreateShipmentSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/p/create" {
			t.Errorf("path = %s, want /p/create", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Token test-token" {
			t.Errorf("auth header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"packages":[{"waybill":"WB12345"}]}`))
	}))
	defer srv.Close()

	svc := NewDelhiveryService(true, "test-token", srv.URL, testPickup)
	res := svc.CreateShipment(context.Background(), testShipmentRequest())

	if !res.Success {
		t.Fatalf("result = %+v, want success", res)
	}
	if res.TrackingID != "WB12345" {
		t.Errorf("tracking id = %s, want WB12345", res.TrackingID)
	}
	if res.Status != "In Transit" {
		t.Errorf("status = %s, want In Transit", res.Status)
	}
}

func TestCreateShipmentNoWaybillYet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"packages":[],"remarks":"queued"}`))
	}))
	defer srv.Close()

	svc := NewDelhiveryService(true, "test-token", srv.URL, testPickup)
	req := testShipmentRequest()
	res := svc.CreateShipment(context.Background(), req)

	if !res.Success {
		t.Fatalf("result = %+v, want success", res)
	}
	if res.TrackingID != req.OrderNumber {
		t.Errorf("tracking id = %s, want order number fallback %s", res.TrackingID, req.OrderNumber)
	}
	if res.Status != "Pending" {
		t.Errorf("status = %s, want Pending", res.Status)
	}
}

func TestCreateShipmentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewDelhiveryService(true, "test-token", srv.URL, testPickup)
	res := svc.CreateShipment(context.Background(), testShipmentRequest())

	if res.Success {
		t.Fatalf("result = %+v, want failure", res)
	}
	if res.Status != "Failed" {
		t.Errorf("status = %s, want Failed", res.Status)
	}
}

func TestGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("waybill"); got != "WB12345" {
			t.Errorf("waybill query = %q", got)
		}
		_, _ = w.Write([]byte(`{"data":[{"Waybill":"WB12345","Origin":"Mumbai","Destination":"Pune",` +
			`"Status":{"Status":"In Transit","StatusType":"UD","StatusLocation":"Mumbai Hub","StatusDateTime":"2025-01-02T10:00:00"}}]}`))
	}))
	defer srv.Close()

	svc := NewDelhiveryService(true, "test-token", srv.URL, testPickup)
	status := svc.GetStatus(context.Background(), "WB12345")

	if status == nil {
		t.Fatal("status = nil, want parsed status")
	}
	if status.Status != "In Transit" || status.StatusType != "UD" {
		t.Errorf("status = %+v", status)
	}
	if status.Destination != "Pune" {
		t.Errorf("destination = %s, want Pune", status.Destination)
	}
}

func TestGetStatusFailuresReturnNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	svc := NewDelhiveryService(true, "test-token", srv.URL, testPickup)

	if got := svc.GetStatus(context.Background(), "WB404"); got != nil {
		t.Errorf("empty data: status = %+v, want nil", got)
	}
	if got := svc.GetStatus(context.Background(), ""); got != nil {
		t.Errorf("blank tracking id: status = %+v, want nil", got)
	}

	disabled := NewDelhiveryService(false, "", srv.URL, testPickup)
	if got := disabled.GetStatus(context.Background(), "WB12345"); got != nil {
		t.Errorf("disabled adapter: status = %+v, want nil", got)
	}
}

func TestCancelShipment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":true}`))
	}))
	defer srv.Close()

	svc := NewDelhiveryService(true, "test-token", srv.URL, testPickup)
	if res := svc.CancelShipment(context.Background(), "WB12345"); !res.Success {
		t.Errorf("result = %+v, want success", res)
	}

	disabled := NewDelhiveryService(false, "", srv.URL, testPickup)
	if res := disabled.CancelShipment(context.Background(), "WB12345"); res.Success {
		t.Errorf("disabled adapter reported success")
	}
}
