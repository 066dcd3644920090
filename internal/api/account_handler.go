package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/squad-api/internal/api/middleware"
	"github.com/phrazzld/squad-api/internal/api/shared"
	"github.com/phrazzld/squad-api/internal/domain"
	"github.com/phrazzld/squad-api/internal/platform/logger"
	"github.com/phrazzld/squad-api/internal/platform/metrics"
	"github.com/phrazzld/squad-api/internal/service"
	"github.com/phrazzld/squad-api/internal/store"
)

// AccountHandler serves /user: registration, lookup and removal.
type AccountHandler struct {
	accounts  service.AccountService
	bodyLimit int64
	metrics   *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler. bodyLimit caps request
// bodies; m may be nil.
func NewAccountHandler(accounts service.AccountService, bodyLimit int64, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{
		accounts:  accounts,
		bodyLimit: bodyLimit,
		metrics:   m,
	}
}

// Register handles POST /user.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(w, r, &req, h.bodyLimit); err != nil {
		h.metrics.RecordRegistration(metrics.OutcomeInvalid)
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.metrics.RecordRegistration(metrics.OutcomeInvalid)
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	reg, err := h.accounts.Register(r.Context(), input)
	if err != nil {
		h.metrics.RecordRegistration(registrationOutcome(err))
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.metrics.RecordRegistration(metrics.OutcomeSuccess)
	shared.RespondSuccess(w, r, http.StatusCreated, MessageRegistered, RegisterData{
		ID:    reg.AccountID,
		Token: reg.Session.Token,
	})
}

// Get handles GET /user/{id}. Any failure to produce the account, including
// a malformed or unknown id, is reported with the same 401 envelope.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	account, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		status := http.StatusUnauthorized
		if MapErrorToStatusCode(err) == http.StatusInternalServerError {
			status = http.StatusInternalServerError
			logger.FromContextOrDefault(r.Context(), nil).Error("account lookup failed",
				"error", err,
				"account_id", id,
				"trace_id", shared.GetTraceID(r.Context()))
		}
		shared.RespondWithJSON(w, r, status, LookupEnvelope{
			Code:   status,
			Status: LookupFailure,
			Data:   []interface{}{},
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LookupEnvelope{
		Code:   http.StatusOK,
		Status: LookupSuccess,
		Data:   account,
	})
}

// Delete handles DELETE /user/{id}. Any bearer may remove any account and
// removing an absent account succeeds.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	if err := h.accounts.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	callerID, _ := middleware.GetAccountID(r)
	logger.FromContextOrDefault(r.Context(), nil).Info("account removed",
		"account_id", id,
		"caller_id", callerID,
		"trace_id", shared.GetTraceID(r.Context()))

	shared.RespondWithJSON(w, r, http.StatusOK, RemovedResponse{Message: MessageRemoved})
}

func (req RegisterRequest) toInput() (service.RegisterInput, error) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return service.RegisterInput{}, err
	}

	var home domain.HomeTown
	if req.HomeTown != nil {
		home = domain.HomeTown{
			Location:    req.HomeTown.Location,
			Coordinates: req.HomeTown.Coordinates,
		}
	}

	identifier, password := req.Credentials()
	return service.RegisterInput{
		Identifier:  identifier,
		Password:    password,
		FullName:    req.FullName,
		Role:        domain.Role(req.Role),
		DateOfBirth: dob,
		HomeTown:    home,
		Squads:      req.Squads,
		Badges:      req.Badges,
	}, nil
}

func registrationOutcome(err error) string {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return metrics.OutcomeDuplicate
	case MapErrorToStatusCode(err) == http.StatusInternalServerError:
		return metrics.OutcomeError
	default:
		return metrics.OutcomeInvalid
	}
}
