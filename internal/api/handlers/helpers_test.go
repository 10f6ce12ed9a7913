package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"route-cost-service/internal/domain"
	"route-cost-service/internal/services"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("optimize route: %w", domain.ErrShapeMismatch), http.StatusBadRequest},
		{fmt.Errorf("optimize route: %w", domain.ErrInvalidLocations), http.StatusBadRequest},
		{domain.ErrUnknownLocation, http.StatusBadRequest},
		{domain.ErrIndexOutOfRange, http.StatusBadRequest},
		{domain.ErrUnknownVehicleClass, http.StatusBadRequest},
		{domain.ErrInvalidCostInput, http.StatusBadRequest},
		{domain.ErrUnreachableLeg, http.StatusUnprocessableEntity},
		{fmt.Errorf("solve: %w", domain.ErrNoSolutionFound), http.StatusUnprocessableEntity},
		{fmt.Errorf("solve: %w: %w", domain.ErrNoSolutionFound, context.Canceled), 499},
		{fmt.Errorf("solve: %w: %w", domain.ErrNoSolutionFound, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{domain.ErrProviderUnavailable, http.StatusServiceUnavailable},
		{services.ErrPoolShutdown, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{domain.ErrInternalFailure, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		status, msg := StatusFor(tt.err)
		require.Equal(t, tt.status, status, tt.err.Error())
		require.NotEmpty(t, msg)
	}

	_, msg := StatusFor(fmt.Errorf("optimize route: solve: %w", domain.ErrNoSolutionFound))
	require.Equal(t, "No solution found", msg)

	_, msg = StatusFor(errors.New("dial tcp 10.0.0.1: refused"))
	require.Equal(t, "internal server error", msg)
}
