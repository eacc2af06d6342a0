package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"condoqueixas/internal/usecase/complaints"
)

var complaintErrors = []int{
	http.StatusBadRequest,
	http.StatusUnauthorized,
	http.StatusForbidden,
	http.StatusNotFound,
	http.StatusConflict,
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
}

type ComplaintPath struct {
	ComplaintID string `path:"complaintId"`
}

type complaintBody struct {
	Body ComplaintResponse `json:"body"`
}

func registerComplaints(api huma.API, svc *complaints.Service) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-complaint",
		Method:        http.MethodPost,
		Path:          "/complaints",
		Summary:       "File a complaint",
		DefaultStatus: http.StatusCreated,
		Errors:        complaintErrors,
	}, func(ctx context.Context, input *struct {
		Body CreateComplaintRequest `json:"body"`
	}) (*complaintBody, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		view, err := svc.CreateComplaint(ctx, complaints.CreateInput{
			Requester:   requester,
			Category:    input.Body.Category,
			Urgency:     input.Body.Urgency,
			Description: input.Body.Description,
			IsAnonymous: input.Body.IsAnonymous,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &complaintBody{Body: complaintResponse(view)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-complaints",
		Method:      http.MethodGet,
		Path:        "/complaints",
		Summary:     "List complaints visible to the caller",
		Errors:      complaintErrors,
	}, func(ctx context.Context, input *struct {
		Scope          string `query:"scope" doc:"mine or all"`
		Status         string `query:"status"`
		Category       string `query:"category"`
		Urgency        string `query:"urgency"`
		AuthorID       string `query:"authorId"`
		CreatedFrom    string `query:"createdFrom" doc:"RFC 3339 timestamp"`
		CreatedTo      string `query:"createdTo" doc:"RFC 3339 timestamp"`
		IncludeDeleted bool   `query:"includeDeleted"`
		Page           int    `query:"page" minimum:"0"`
		Limit          int    `query:"limit" minimum:"0"`
	}) (*struct {
		Body ComplaintListResponse `json:"body"`
	}, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		from, err := parseTimeParam("createdFrom", input.CreatedFrom)
		if err != nil {
			return nil, err
		}
		to, err := parseTimeParam("createdTo", input.CreatedTo)
		if err != nil {
			return nil, err
		}

		result, listErr := svc.ListComplaints(ctx, complaints.ListInput{
			Requester:      requester,
			Scope:          input.Scope,
			Status:         input.Status,
			Category:       input.Category,
			Urgency:        input.Urgency,
			AuthorID:       input.AuthorID,
			CreatedFrom:    from,
			CreatedTo:      to,
			IncludeDeleted: input.IncludeDeleted,
			Page:           input.Page,
			Limit:          input.Limit,
		})
		if listErr != nil {
			return nil, handleError(listErr)
		}

		items := make([]ComplaintResponse, 0, len(result.Items))
		for _, view := range result.Items {
			items = append(items, complaintResponse(view))
		}
		return &struct {
			Body ComplaintListResponse `json:"body"`
		}{Body: ComplaintListResponse{
			Items:      items,
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-complaint",
		Method:      http.MethodGet,
		Path:        "/complaints/{complaintId}",
		Summary:     "Complaint detail with status history",
		Errors:      complaintErrors,
	}, func(ctx context.Context, input *struct {
		ComplaintPath
		IncludeDeleted bool `query:"includeDeleted"`
	}) (*complaintBody, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		view, err := svc.GetComplaint(ctx, complaints.GetInput{
			Requester:      requester,
			ComplaintID:    input.ComplaintID,
			IncludeDeleted: input.IncludeDeleted,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &complaintBody{Body: complaintResponse(view)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-complaint",
		Method:      http.MethodPatch,
		Path:        "/complaints/{complaintId}",
		Summary:     "Edit a pending complaint",
		Errors:      complaintErrors,
	}, func(ctx context.Context, input *struct {
		ComplaintPath
		Body UpdateComplaintRequest `json:"body"`
	}) (*complaintBody, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		view, err := svc.UpdateComplaint(ctx, complaints.UpdateInput{
			Requester:   requester,
			ComplaintID: input.ComplaintID,
			Description: input.Body.Description,
			Category:    input.Body.Category,
			Urgency:     input.Body.Urgency,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &complaintBody{Body: complaintResponse(view)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-complaint",
		Method:        http.MethodDelete,
		Path:          "/complaints/{complaintId}",
		Summary:       "Soft-delete a complaint",
		DefaultStatus: http.StatusNoContent,
		Errors:        complaintErrors,
	}, func(ctx context.Context, input *ComplaintPath) (*struct{}, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := svc.DeleteComplaint(ctx, complaints.DeleteInput{Requester: requester, ComplaintID: input.ComplaintID}); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "change-complaint-status",
		Method:      http.MethodPatch,
		Path:        "/complaints/{complaintId}/status",
		Summary:     "Move a complaint through its status workflow",
		Errors:      complaintErrors,
	}, func(ctx context.Context, input *struct {
		ComplaintPath
		Body ChangeStatusRequest `json:"body"`
	}) (*struct {
		Body TransitionResponse `json:"body"`
	}, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		result, err := svc.ChangeStatus(ctx, complaints.ChangeStatusInput{
			Requester:   requester,
			ComplaintID: input.ComplaintID,
			NewStatus:   input.Body.Status,
			Reason:      input.Body.Reason,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TransitionResponse `json:"body"`
		}{Body: TransitionResponse{
			ComplaintID:    result.ComplaintID,
			PreviousStatus: string(result.PreviousStatus),
			NewStatus:      string(result.NewStatus),
			ChangedBy:      result.ChangedBy,
			ChangedAt:      result.ChangedAt,
			Reason:         result.Reason,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "complaint-history",
		Method:      http.MethodGet,
		Path:        "/complaints/{complaintId}/history",
		Summary:     "Status history, newest first",
		Errors:      complaintErrors,
	}, func(ctx context.Context, input *ComplaintPath) (*struct {
		Body []HistoryResponse `json:"body"`
	}, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		entries, err := svc.StatusHistory(ctx, complaints.HistoryInput{Requester: requester, ComplaintID: input.ComplaintID})
		if err != nil {
			return nil, handleError(err)
		}
		body := historyResponses(entries)
		if body == nil {
			body = []HistoryResponse{}
		}
		return &struct {
			Body []HistoryResponse `json:"body"`
		}{Body: body}, nil
	})
}

func registerAuditLogs(api huma.API, svc *complaints.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "list-audit-logs",
		Method:      http.MethodGet,
		Path:        "/audit-logs",
		Summary:     "Audit trail (ADMIN only)",
		Errors:      complaintErrors,
	}, func(ctx context.Context, input *struct {
		Action      string `query:"action"`
		EntityType  string `query:"entityType"`
		EntityID    string `query:"entityId"`
		PerformedBy string `query:"performedBy"`
		Page        int    `query:"page" minimum:"0"`
		Limit       int    `query:"limit" minimum:"0"`
	}) (*struct {
		Body AuditLogListResponse `json:"body"`
	}, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		page, err := svc.ListAuditLogs(ctx, complaints.AuditLogsInput{
			Requester:   requester,
			Action:      input.Action,
			EntityType:  input.EntityType,
			EntityID:    input.EntityID,
			PerformedBy: input.PerformedBy,
			Page:        input.Page,
			Limit:       input.Limit,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body AuditLogListResponse `json:"body"`
		}{Body: AuditLogListResponse{
			Items:      auditLogResponses(page.Items),
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		}}, nil
	})
}

func parseTimeParam(name string, raw string) (*time.Time, huma.StatusError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, newAPIError(http.StatusBadRequest, "validation_failed", name+" must be an RFC 3339 timestamp")
	}
	return &parsed, nil
}
