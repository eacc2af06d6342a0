package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"condoqueixas/internal/usecase/kanban"
)

type BoardPath struct {
	BoardID string `path:"boardId"`
}

func registerKanban(api huma.API, svc *kanban.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/kanban/boards",
		Summary:     "List kanban boards",
		Errors:      complaintErrors,
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []BoardResponse `json:"body"`
	}, error) {
		if _, authErr := requesterFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		boards, err := svc.ListBoards(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		body := make([]BoardResponse, 0, len(boards))
		for _, board := range boards {
			body = append(body, BoardResponse{ID: board.ID, Title: board.Title, Description: board.Description})
		}
		return &struct {
			Body []BoardResponse `json:"body"`
		}{Body: body}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/kanban/boards/{boardId}",
		Summary:     "Board with columns and ordered cards",
		Errors:      complaintErrors,
	}, func(ctx context.Context, input *BoardPath) (*struct {
		Body BoardResponse `json:"body"`
	}, error) {
		if _, authErr := requesterFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		view, err := svc.GetBoard(ctx, input.BoardID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body BoardResponse `json:"body"`
		}{Body: boardResponse(view)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-card",
		Method:        http.MethodPost,
		Path:          "/kanban/boards/{boardId}/cards",
		Summary:       "Append a manual card to a column",
		DefaultStatus: http.StatusCreated,
		Errors:        complaintErrors,
	}, func(ctx context.Context, input *struct {
		BoardPath
		Body CreateCardRequest `json:"body"`
	}) (*struct {
		Body CardResponse `json:"body"`
	}, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		card, err := svc.CreateCard(ctx, kanban.CreateCardInput{
			Requester:   requester,
			BoardID:     input.BoardID,
			ColumnID:    input.Body.ColumnID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body CardResponse `json:"body"`
		}{Body: cardResponse(card)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-card",
		Method:      http.MethodPost,
		Path:        "/kanban/boards/{boardId}/cards/{cardId}/move",
		Summary:     "Reorder a card or move it to another column",
		Errors:      complaintErrors,
	}, func(ctx context.Context, input *struct {
		BoardPath
		CardID string          `path:"cardId"`
		Body   MoveCardRequest `json:"body"`
	}) (*struct {
		Body MoveCardResponse `json:"body"`
	}, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		result, err := svc.MoveCard(ctx, kanban.MoveCardInput{
			Requester:      requester,
			BoardID:        input.BoardID,
			CardID:         input.CardID,
			TargetColumnID: input.Body.TargetColumnID,
			Index:          input.Body.Index,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body MoveCardResponse `json:"body"`
		}{Body: MoveCardResponse{
			CardID:       result.CardID,
			FromColumnID: result.FromColumnID,
			ToColumnID:   result.ToColumnID,
			Order:        result.Order,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-card",
		Method:        http.MethodDelete,
		Path:          "/kanban/cards/{cardId}",
		Summary:       "Delete a card",
		DefaultStatus: http.StatusNoContent,
		Errors:        complaintErrors,
	}, func(ctx context.Context, input *struct {
		CardID string `path:"cardId"`
	}) (*struct{}, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := svc.DeleteCard(ctx, kanban.DeleteCardInput{Requester: requester, CardID: input.CardID}); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "sync-complaint-card",
		Method:      http.MethodPost,
		Path:        "/kanban/sync/{complaintId}",
		Summary:     "Mirror one complaint onto the board",
		Errors:      complaintErrors,
	}, func(ctx context.Context, input *ComplaintPath) (*struct {
		Body SyncResponse `json:"body"`
	}, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		result, err := svc.SyncComplaint(ctx, kanban.SyncInput{Requester: requester, ComplaintID: input.ComplaintID})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body SyncResponse `json:"body"`
		}{Body: SyncResponse{
			ComplaintID:    result.ComplaintID,
			CardID:         result.CardID,
			ColumnID:       result.ColumnID,
			Created:        result.Created,
			Moved:          result.Moved,
			ContentUpdated: result.ContentUpdated,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "sync-all-cards",
		Method:      http.MethodPost,
		Path:        "/kanban/sync",
		Summary:     "Mirror every complaint onto the board",
		Errors:      complaintErrors,
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body SyncSummaryResponse `json:"body"`
	}, error) {
		requester, authErr := requesterFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		summary, err := svc.SyncAll(ctx, requester)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body SyncSummaryResponse `json:"body"`
		}{Body: SyncSummaryResponse{
			Scanned: summary.Scanned,
			Created: summary.Created,
			Moved:   summary.Moved,
			Updated: summary.Updated,
		}}, nil
	})
}
