package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/repositories"
	apperrors "github.com/paramveeRana/brainstroke3/pkg/errors"
)

const maxBodyBytes = 1 << 20

// yesNo accepts a JSON bool or the "Yes"/"No" strings the assessment form sends
type yesNo bool

func (b *yesNo) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = yesNo(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a boolean or \"Yes\"/\"No\", got %s", data)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true":
		*b = true
	case "no", "false", "":
		*b = false
	default:
		return fmt.Errorf("expected a boolean or \"Yes\"/\"No\", got %q", s)
	}
	return nil
}

type healthRecordRequest struct {
	Age           *int     `json:"age"`
	Gender        string   `json:"gender"`
	Height        *float64 `json:"height"`
	Weight        *float64 `json:"weight"`
	Hypertension  yesNo    `json:"hypertension"`
	HeartDisease  yesNo    `json:"heart_disease"`
	SmokingStatus string   `json:"smoking_status"`
}

func (req healthRecordRequest) toEntity() (entities.HealthRecord, error) {
	var missing []string
	if req.Age == nil {
		missing = append(missing, "age")
	}
	if req.Height == nil {
		missing = append(missing, "height")
	}
	if req.Weight == nil {
		missing = append(missing, "weight")
	}
	if len(missing) > 0 {
		return entities.HealthRecord{}, apperrors.NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}

	return entities.HealthRecord{
		Age:           *req.Age,
		Gender:        entities.Gender(req.Gender),
		Height:        *req.Height,
		Weight:        *req.Weight,
		Hypertension:  bool(req.Hypertension),
		HeartDisease:  bool(req.HeartDisease),
		SmokingStatus: entities.SmokingStatus(req.SmokingStatus),
	}, nil
}

func decodeHealthRecord(w http.ResponseWriter, r *http.Request) (entities.HealthRecord, error) {
	var req healthRecordRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return entities.HealthRecord{}, apperrors.NewValidationError("request body is required")
		}
		return entities.HealthRecord{}, apperrors.WrapValidationError("invalid request payload", err)
	}
	return req.toEntity()
}

func userIDFromRequest(r *http.Request) (string, error) {
	userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if userID == "" {
		return "", apperrors.NewUnauthorizedError(UserIDHeader + " header is required")
	}
	return userID, nil
}

func parseAssessmentFilter(r *http.Request) (repositories.AssessmentFilter, error) {
	var filter repositories.AssessmentFilter
	query := r.URL.Query()

	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return filter, apperrors.NewValidationError("limit must be a positive integer")
		}
		filter.Limit = limit
	}
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, apperrors.NewValidationError("offset must be a non-negative integer")
		}
		filter.Offset = offset
	}

	return filter.Normalize(), nil
}
