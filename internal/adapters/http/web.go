package web

import (
	"net/http"
	"time"

	"almadash/internal/adapters/http/middleware"
	acudienteStore "almadash/internal/adapters/storage/acudiente"
	mensualidadStore "almadash/internal/adapters/storage/mensualidad"
	outboxStore "almadash/internal/adapters/storage/outbox"
	participanteStore "almadash/internal/adapters/storage/participante"
	sedeStore "almadash/internal/adapters/storage/sede"
	usuarioStore "almadash/internal/adapters/storage/usuario"
	"almadash/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	SedeStore         sedeStore.Store
	ParticipanteStore participanteStore.Store
	AcudienteStore    acudienteStore.Store
	MensualidadStore  mensualidadStore.Store
	UsuarioStore      usuarioStore.Store
	OutboxStore       outboxStore.Store
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global receipt queue (set by NewMux; nil disables receipt emails)
var receiptQueue *orchestrators.ReceiptQueue

// Global outbox processor for the admin retry endpoint (set by NewMux)
var outboxProcessor *orchestrators.OutboxProcessor

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// NewMux wires HTTP handlers for the app. queue and processor may be nil when
// the email pipeline is disabled.
func NewMux(s *Stores, queue *orchestrators.ReceiptQueue, processor *orchestrators.OutboxProcessor, allowedOrigins []string) http.Handler {
	stores = s
	receiptQueue = queue
	outboxProcessor = processor

	mux := http.NewServeMux()
	registerRoutes(mux)

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> CORS -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CORS(allowedOrigins),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
