//nolint:mnd
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"

	"github.com/brianvoe/gofakeit/v7"
)

// checkout-probe fires synthetic checkout submissions at a running
// service instance, for smoke testing against sandbox provider
// credentials.
func main() {
	target := flag.String("target", "http://localhost:8080", "Base URL of the checkout service")
	numRequests := flag.Int("count", 1, "Number of checkout requests to send")
	interval := flag.Duration("interval", 1*time.Second, "Interval between requests")
	amount := flag.Int64("amount", 0, "Amount in centavos (0 uses the service's configured price)")

	flag.Parse()

	client := &http.Client{Timeout: 40 * time.Second}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf(
		"Starting checkout probe. Will send %d requests to '%s' every %v\n",
		*numRequests, *target, *interval,
	)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	requestsSent := 0

	sendCheckout(ctx, client, *target, *amount)

	requestsSent++
	if requestsSent >= *numRequests {
		log.Printf("Sent all %d requests. Exiting.\n", *numRequests)
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutting down probe...")
			return
		case <-ticker.C:
			sendCheckout(ctx, client, *target, *amount)
			requestsSent++
			if requestsSent >= *numRequests {
				log.Printf("Sent all %d requests. Exiting.\n", *numRequests)
				return
			}
		}
	}
}

func sendCheckout(ctx context.Context, client *http.Client, target string, amount int64) {
	req := generateFakeCheckout(amount)
	body, err := json.Marshal(req)
	if err != nil {
		log.Printf("Failed to marshal checkout request: %v", err)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, 40*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(
		reqCtx, http.MethodPost, target+"/api/checkout", bytes.NewReader(body))
	if err != nil {
		log.Printf("Failed to build request: %v", err)
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		log.Printf("Checkout request failed: %v", err)
		return
	}
	defer resp.Body.Close()

	responseBody, _ := io.ReadAll(resp.Body)
	log.Printf("Checkout for %s: status %d, body %s", req.Email, resp.StatusCode, responseBody)
}

func generateFakeCheckout(amount int64) *entity.CheckoutRequest {
	return &entity.CheckoutRequest{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Phone:    fmt.Sprintf("11 9%04d-%04d", gofakeit.Number(1000, 9999), gofakeit.Number(1000, 9999)),
		Document: generateFakeCPF(),
		Amount:   amount,
	}
}

// generateFakeCPF builds a random taxpayer id with valid mod-11 check
// digits so the submission passes form validation.
func generateFakeCPF() string {
	digits := make([]int, 0, 11)
	for range 9 {
		digits = append(digits, gofakeit.Number(0, 9))
	}
	digits = append(digits, cpfCheckDigit(digits, 10))
	digits = append(digits, cpfCheckDigit(digits, 11))

	var b bytes.Buffer
	for _, d := range digits {
		fmt.Fprintf(&b, "%d", d)
	}
	return b.String()
}

func cpfCheckDigit(digits []int, startWeight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (startWeight - i)
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}
