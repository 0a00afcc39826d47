package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"leave-core/internal/audit"
	"leave-core/internal/leave"
	leaveerrors "leave-core/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	submitFn          func(ctx context.Context, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	updateFn          func(ctx context.Context, actorID, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error)
	cancelFn          func(ctx context.Context, actorID, id string) (leave.LeaveResponse, error)
	approveFn         func(ctx context.Context, actorID, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error)
	rejectFn          func(ctx context.Context, actorID, id, rejectionReason string) (leave.LeaveResponse, error)
	getByIDFn         func(ctx context.Context, id string) (leave.LeaveResponse, error)
	listPendingFn     func(ctx context.Context, actorID, scope string) ([]leave.LeaveResponse, error)
	listHistoryFn     func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error)
	escalateOverdueFn func(ctx context.Context) (int, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, actorID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, actorID, req)
}
func (f *fakeLeaveService) Update(ctx context.Context, actorID, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	return f.updateFn(ctx, actorID, id, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, actorID, id string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, actorID, id)
}
func (f *fakeLeaveService) Approve(ctx context.Context, actorID, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actorID, id, req)
}
func (f *fakeLeaveService) Reject(ctx context.Context, actorID, id, rejectionReason string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, actorID, id, rejectionReason)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveService) ListPending(ctx context.Context, actorID, scope string) ([]leave.LeaveResponse, error) {
	return f.listPendingFn(ctx, actorID, scope)
}
func (f *fakeLeaveService) ListHistory(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	return f.listHistoryFn(ctx, employeeID)
}
func (f *fakeLeaveService) EscalateOverdue(ctx context.Context) (int, error) {
	if f.escalateOverdueFn != nil {
		return f.escalateOverdueFn(ctx)
	}
	return 0, nil
}

type fakeAuditReader struct {
	listByLeaveFn func(ctx context.Context, leaveID string) ([]audit.AuditEntryResponse, error)
}

func (f *fakeAuditReader) ListByLeave(ctx context.Context, leaveID string) ([]audit.AuditEntryResponse, error) {
	return f.listByLeaveFn(ctx, leaveID)
}

func TestLeaveHandler_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()

		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, aid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "SICK", req.LeaveType)
				return leave.LeaveResponse{
					ID:         uuid.New().String(),
					EmployeeID: aid,
					LeaveType:  req.LeaveType,
					StartDate:  req.StartDate,
					EndDate:    req.EndDate,
					Days:       1,
					Status:     leave.StatusPending,
					CreatedBy:  aid,
				}, nil
			},
		}

		h := leave.NewHandler(svc, &fakeAuditReader{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"SICK","start_date":"2026-03-10","end_date":"2026-03-10","reason":"fever"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", actorID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var resp leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, leave.StatusPending, resp.Status)
	})

	t.Run("negative invalid payload", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, &fakeAuditReader{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"LONG_WEEKEND","start_date":"2026-03-10","end_date":"2026-03-10"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("employee_id", uuid.New().String())

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	t.Run("success without body", func(t *testing.T) {
		actorID := uuid.New().String()
		leaveID := uuid.New().String()

		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, leaveID, id)
				assert.Nil(t, req.ApprovedStartDate)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}

		h := leave.NewHandler(svc, &fakeAuditReader{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", actorID)

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative already resolved maps to conflict", func(t *testing.T) {
		leaveID := uuid.New().String()

		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, aid, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyResolved
			},
		}

		h := leave.NewHandler(svc, &fakeAuditReader{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/approve", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", uuid.New().String())

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "ALREADY_RESOLVED", env.Error.Code)
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	t.Run("negative missing rationale fails binding", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, &fakeAuditReader{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/x/reject", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("employee_id", uuid.New().String())

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, aid, id, rationale string) (leave.LeaveResponse, error) {
				assert.Equal(t, "no coverage that week", rationale)
				return leave.LeaveResponse{ID: id, Status: leave.StatusRejected}, nil
			},
		}

		h := leave.NewHandler(svc, &fakeAuditReader{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/reject",
			strings.NewReader(`{"rejection_reason":"no coverage that week"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("employee_id", uuid.New().String())

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_ListPending(t *testing.T) {
	t.Run("defaults to manager scope", func(t *testing.T) {
		actorID := uuid.New().String()
		svc := &fakeLeaveService{
			listPendingFn: func(ctx context.Context, aid, scope string) ([]leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "manager", scope)
				return []leave.LeaveResponse{}, nil
			},
		}

		h := leave.NewHandler(svc, &fakeAuditReader{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/pending", nil)
		c.Set("employee_id", actorID)

		h.ListPending(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("passes an explicit scope through", func(t *testing.T) {
		svc := &fakeLeaveService{
			listPendingFn: func(ctx context.Context, aid, scope string) ([]leave.LeaveResponse, error) {
				assert.Equal(t, "admin", scope)
				return []leave.LeaveResponse{}, nil
			},
		}

		h := leave.NewHandler(svc, &fakeAuditReader{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/pending?scope=admin", nil)
		c.Set("employee_id", uuid.New().String())

		h.ListPending(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_GetAuditTrail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		leaveID := uuid.New().String()
		reader := &fakeAuditReader{
			listByLeaveFn: func(ctx context.Context, id string) ([]audit.AuditEntryResponse, error) {
				assert.Equal(t, leaveID, id)
				return []audit.AuditEntryResponse{{Action: audit.ActionApplied}}, nil
			},
		}

		h := leave.NewHandler(&fakeLeaveService{}, reader)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/"+leaveID+"/audit", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.GetAuditTrail(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})
}
