package restapi

import (
	"net/http"
	"strconv"
	"strings"

	"chain_insight/internal/app/port"
	"chain_insight/internal/app/service"
	"chain_insight/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

const maxSwapCount = 100

// DataResponse wraps every successful payload.
type DataResponse struct {
	Data any `json:"data"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string           `json:"error"`
	Kind  entity.ErrorKind `json:"kind"`
}

// LookupRequest is the body of block and wallet lookups.
type LookupRequest struct {
	Input   string `json:"input"`
	Network string `json:"network"`
}

// ClassifyRequest is the body of /api/input/classify.
type ClassifyRequest struct {
	Input string `json:"input"`
}

// SwitchRequest is the body of /api/network/switch.
type SwitchRequest struct {
	Network string `json:"network"`
}

// TokenRequest is the body of /api/defi/token.
type TokenRequest struct {
	Address string `json:"address"`
}

// NetworksResponse is the body of /api/networks.
type NetworksResponse struct {
	Networks       []entity.NetworkSummary `json:"networks"`
	CurrentNetwork string                  `json:"currentNetwork"`
}

// ExplorerHandler serves the lookup API on top of port.ExplorerService.
type ExplorerHandler struct {
	explorer port.ExplorerService
	health   port.HealthService
	logger   port.Logger
}

// NewExplorerHandler creates a new instance of ExplorerHandler.
func NewExplorerHandler(explorer port.ExplorerService, health port.HealthService, l port.Logger) *ExplorerHandler {
	return &ExplorerHandler{
		explorer: explorer,
		health:   health,
		logger:   l,
	}
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindNotFound:
		return http.StatusNotFound
	case entity.KindInvalidInput, entity.KindUnknownNetwork:
		return http.StatusBadRequest
	case entity.KindNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (h *ExplorerHandler) fail(c *gin.Context, err error) {
	kind := entity.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.FullPath(), "kind", kind, "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func (h *ExplorerHandler) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Kind: entity.KindInvalidInput})
}

// GetBlock handles POST /api/block.
func (h *ExplorerHandler) GetBlock(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	number, err := service.ParseBlockNumber(req.Input)
	if err != nil {
		h.fail(c, err)
		return
	}
	block, err := h.explorer.GetBlockView(c.Request.Context(), strings.TrimSpace(req.Network), number)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: block})
}

// GetWallet handles POST /api/wallet.
func (h *ExplorerHandler) GetWallet(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	view, err := h.explorer.GetWalletView(c.Request.Context(), strings.TrimSpace(req.Network), strings.TrimSpace(req.Input))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: view})
}

// ClassifyInput handles POST /api/input/classify.
func (h *ExplorerHandler) ClassifyInput(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: h.explorer.ClassifyInput(strings.TrimSpace(req.Input))})
}

// ListNetworks handles GET /api/networks.
func (h *ExplorerHandler) ListNetworks(c *gin.Context) {
	c.JSON(http.StatusOK, NetworksResponse{
		Networks:       h.explorer.ListNetworks(),
		CurrentNetwork: h.explorer.ActiveNetwork().ID,
	})
}

// SwitchNetwork handles POST /api/network/switch.
func (h *ExplorerHandler) SwitchNetwork(c *gin.Context) {
	var req SwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	result, err := h.explorer.SwitchNetwork(strings.TrimSpace(req.Network))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RecentSwaps handles GET /api/defi/swaps?count=N.
func (h *ExplorerHandler) RecentSwaps(c *gin.Context) {
	count := 0
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxSwapCount {
			h.badRequest(c, "count must be between 1 and "+strconv.Itoa(maxSwapCount))
			return
		}
		count = n
	}
	h.queryIndexed(c, entity.IndexedQuery{Kind: entity.IndexedRecentSwaps, First: count})
}

// TokenInfo handles POST /api/defi/token.
func (h *ExplorerHandler) TokenInfo(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	h.queryIndexed(c, entity.IndexedQuery{Kind: entity.IndexedToken, Address: strings.TrimSpace(req.Address)})
}

// PoolInfo handles GET /api/defi/pool/:address.
func (h *ExplorerHandler) PoolInfo(c *gin.Context) {
	h.queryIndexed(c, entity.IndexedQuery{Kind: entity.IndexedPool, Address: c.Param("address")})
}

// ENSDomain handles GET /api/ens/:name.
func (h *ExplorerHandler) ENSDomain(c *gin.Context) {
	h.queryIndexed(c, entity.IndexedQuery{Kind: entity.IndexedENSDomain, Name: c.Param("name")})
}

// Transaction handles GET /api/transaction/:hash, the DEX indexer's view of one transaction.
func (h *ExplorerHandler) Transaction(c *gin.Context) {
	h.queryIndexed(c, entity.IndexedQuery{Kind: entity.IndexedTransaction, Hash: c.Param("hash")})
}

func (h *ExplorerHandler) queryIndexed(c *gin.Context, q entity.IndexedQuery) {
	res, err := h.explorer.QueryIndexed(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DataResponse{Data: res})
}

// ConfigStatus handles GET /api/config.
func (h *ExplorerHandler) ConfigStatus(c *gin.Context) {
	c.JSON(http.StatusOK, DataResponse{Data: h.explorer.ConfigStatus()})
}

// Health handles GET /health. Only an unusable explorer turns it into a 503.
func (h *ExplorerHandler) Health(c *gin.Context) {
	report := h.health.Check(c.Request.Context())
	status := http.StatusOK
	if report.Status == service.HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
