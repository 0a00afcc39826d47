package errors

import (
	"net/http"

	"leave-core/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(apperror.CodeNotFound, "leave request not found", http.StatusNotFound)

	// ErrAlreadyResolved is the concurrent double-resolution outcome: the
	// row existed but another approver reached it first.
	ErrAlreadyResolved = apperror.New(apperror.CodeAlreadyResolved, "leave request already resolved", http.StatusConflict)

	// ErrNotPending covers update and cancel attempts against a request
	// that has already reached a terminal status.
	ErrNotPending = apperror.New(apperror.CodeInvalidState, "leave request is no longer pending", http.StatusConflict)

	ErrInvalidLeaveID    = apperror.New(apperror.CodeInvalidInput, "leave id must be a valid uuid", http.StatusBadRequest)
	ErrInvalidEmployeeID = apperror.New(apperror.CodeInvalidInput, "employee id must be a valid uuid", http.StatusBadRequest)
	ErrInvalidActorID    = apperror.New(apperror.CodeInvalidInput, "actor id must be a valid uuid", http.StatusBadRequest)

	ErrInvalidDateFormat = apperror.New(apperror.CodeInvalidInput, "dates must use the YYYY-MM-DD format", http.StatusBadRequest)
	ErrInvalidDateRange  = apperror.New(apperror.CodeInvalidInput, "end date must not be before start date", http.StatusBadRequest)

	ErrReasonRequired        = apperror.New(apperror.CodeInvalidInput, "a reason is required", http.StatusBadRequest)
	ErrHalfDayPeriodRequired = apperror.New(apperror.CodeInvalidInput, "half-day requests must state MORNING or AFTERNOON", http.StatusBadRequest)
	ErrHalfDaySingleDay      = apperror.New(apperror.CodeInvalidInput, "half-day requests must start and end on the same date", http.StatusBadRequest)
	ErrLogoutTimeRequired    = apperror.New(apperror.CodeInvalidInput, "early logout requests must state a logout time", http.StatusBadRequest)

	ErrPlannedNoticeTooShort = apperror.New(apperror.CodeInvalidInput, "planned leave requires at least 7 days of notice", http.StatusBadRequest)

	ErrRejectionReasonRequired = apperror.New(apperror.CodeInvalidInput, "a rejection reason is required", http.StatusBadRequest)

	ErrPartialRangeOutOfBounds = apperror.New(apperror.CodeInvalidInput, "approved range must lie within the requested range", http.StatusBadRequest)
	ErrPartialHalfDay          = apperror.New(apperror.CodeInvalidInput, "half-day requests cannot be partially approved", http.StatusBadRequest)

	ErrOnBehalfForbidden = apperror.New(apperror.CodeForbidden, "only admins may file leave on behalf of another employee", http.StatusForbidden)
	ErrCancelForbidden   = apperror.New(apperror.CodeForbidden, "only the owner or an admin may cancel a leave request", http.StatusForbidden)

	ErrInvalidScope   = apperror.New(apperror.CodeInvalidInput, "scope must be manager or admin", http.StatusBadRequest)
	ErrScopeForbidden = apperror.New(apperror.CodeForbidden, "admin scope requires the admin role", http.StatusForbidden)
)
