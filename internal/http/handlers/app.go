package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"fundflow/internal/infra"
	"fundflow/internal/mpesa"
)

// Gateway is the slice of the M-Pesa client the handlers need. Tests provide
// fakes; production wires *mpesa.Client.
type Gateway interface {
	RequestPayment(ctx context.Context, phone string, amount int64, accountRef, description string) (*mpesa.STKPushResponse, error)
}

// ImageStore persists uploaded project images and returns the stored key.
type ImageStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// App carries the handler dependencies: the SQL executor, the payment
// gateway, structured logging and the loaded configuration.
type App struct {
	SQL     infra.SQLExecutor
	Gateway Gateway
	Images  ImageStore
	Logger  zerolog.Logger
	Cfg     *infra.Config
}

func NewApp(sql infra.SQLExecutor, gateway Gateway, images ImageStore, logger zerolog.Logger, cfg *infra.Config) *App {
	return &App{SQL: sql, Gateway: gateway, Images: images, Logger: logger, Cfg: cfg}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, msg string) {
	a.json(w, code, map[string]any{"error": map[string]string{"code": slug, "message": msg}})
}
