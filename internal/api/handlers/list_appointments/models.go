package list_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/appointments/models"
)

// ToServiceRequest собирает фильтр из query параметров:
// clientId, therapistId, from, to (RFC3339), status
func ToServiceRequest(actor domain.Actor, query url.Values) (*models.ListRequest, error) {
	req := &models.ListRequest{Actor: actor}

	var err error
	if req.ClientID, err = parseOptionalID(query, "clientId"); err != nil {
		return nil, err
	}
	if req.TherapistID, err = parseOptionalID(query, "therapistId"); err != nil {
		return nil, err
	}
	if req.From, err = parseOptionalTime(query, "from"); err != nil {
		return nil, err
	}
	if req.To, err = parseOptionalTime(query, "to"); err != nil {
		return nil, err
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	return req, nil
}

func parseOptionalID(query url.Values, key string) (*int64, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &id, nil
}

func parseOptionalTime(query url.Values, key string) (*time.Time, error) {
	raw := query.Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &t, nil
}
