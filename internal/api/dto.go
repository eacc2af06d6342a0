package api

import (
	"time"

	domainkanban "condoqueixas/internal/domain/kanban"
	"condoqueixas/internal/ports"
	"condoqueixas/internal/usecase/complaints"
	"condoqueixas/internal/usecase/kanban"
)

type CreateComplaintRequest struct {
	Category    string `json:"category" enum:"INFRAESTRUTURA,LIMPEZA,SEGURANCA,CONVENIENCIA,ADMINISTRATIVO,OUTROS"`
	Urgency     string `json:"urgency" enum:"BAIXA,MEDIA,ALTA,CRITICA"`
	Description string `json:"description" minLength:"1" maxLength:"2000"`
	IsAnonymous bool   `json:"isAnonymous,omitempty"`
}

type UpdateComplaintRequest struct {
	Category    *string `json:"category,omitempty"`
	Urgency     *string `json:"urgency,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" enum:"PENDENTE,EM_ANALISE,RESOLVIDA,REJEITADA"`
	Reason string `json:"reason,omitempty"`
}

type AuthorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Block     string `json:"block,omitempty"`
	Apartment string `json:"apartment,omitempty"`
}

type HistoryResponse struct {
	ID             string    `json:"id"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	ChangedBy      string    `json:"changedBy"`
	ChangedAt      time.Time `json:"changedAt"`
	Reason         *string   `json:"reason,omitempty"`
}

type ComplaintResponse struct {
	ID            string            `json:"id"`
	Category      string            `json:"category"`
	Urgency       string            `json:"urgency"`
	Priority      int               `json:"priority"`
	Description   string            `json:"description"`
	Status        string            `json:"status"`
	IsAnonymous   bool              `json:"isAnonymous"`
	IsOwn         bool              `json:"isOwn"`
	Author        string            `json:"author"`
	AuthorDetails *AuthorResponse   `json:"authorDetails,omitempty"`
	CanEdit       bool              `json:"canEdit"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	DeletedAt     *time.Time        `json:"deletedAt,omitempty"`
	History       []HistoryResponse `json:"history,omitempty"`
}

type ComplaintListResponse struct {
	Items      []ComplaintResponse `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"totalPages"`
}

type TransitionResponse struct {
	ComplaintID    string    `json:"complaintId"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	ChangedBy      string    `json:"changedBy"`
	ChangedAt      time.Time `json:"changedAt"`
	Reason         *string   `json:"reason,omitempty"`
}

type AuditLogResponse struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	EntityType  string         `json:"entityType"`
	EntityID    string         `json:"entityId"`
	PerformedBy string         `json:"performedBy"`
	Details     map[string]any `json:"details,omitempty"`
	IPAddress   *string        `json:"ipAddress,omitempty"`
	UserAgent   *string        `json:"userAgent,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type AuditLogListResponse struct {
	Items      []AuditLogResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}

type CardResponse struct {
	ID          string  `json:"id"`
	ColumnID    string  `json:"columnId"`
	ComplaintID *string `json:"complaintId,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Order       int     `json:"order"`
}

type ColumnResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Position int            `json:"position"`
	Cards    []CardResponse `json:"cards"`
}

type BoardResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Columns     []ColumnResponse `json:"columns,omitempty"`
}

type CreateCardRequest struct {
	ColumnID    string `json:"columnId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type MoveCardRequest struct {
	TargetColumnID string `json:"targetColumnId"`
	Index          int    `json:"index" minimum:"0"`
}

type MoveCardResponse struct {
	CardID       string `json:"cardId"`
	FromColumnID string `json:"fromColumnId"`
	ToColumnID   string `json:"toColumnId"`
	Order        int    `json:"order"`
}

type SyncResponse struct {
	ComplaintID    string `json:"complaintId"`
	CardID         string `json:"cardId"`
	ColumnID       string `json:"columnId"`
	Created        bool   `json:"created"`
	Moved          bool   `json:"moved"`
	ContentUpdated bool   `json:"contentUpdated"`
}

type SyncSummaryResponse struct {
	Scanned int `json:"scanned"`
	Created int `json:"created"`
	Moved   int `json:"moved"`
	Updated int `json:"updated"`
}

func complaintResponse(view complaints.ComplaintView) ComplaintResponse {
	out := ComplaintResponse{
		ID:          view.ID,
		Category:    string(view.Category),
		Urgency:     string(view.Urgency),
		Priority:    view.Priority,
		Description: view.Description,
		Status:      string(view.Status),
		IsAnonymous: view.IsAnonymous,
		IsOwn:       view.IsOwn,
		Author:      view.AuthorLabel,
		CanEdit:     view.CanEdit,
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
		DeletedAt:   view.DeletedAt,
		History:     historyResponses(view.History),
	}
	if view.Author != nil {
		out.AuthorDetails = &AuthorResponse{
			ID:        view.Author.ID,
			Name:      view.Author.Name,
			Block:     view.Author.Block,
			Apartment: view.Author.Apartment,
		}
	}
	return out
}

func historyResponses(entries []complaints.HistoryView) []HistoryResponse {
	if len(entries) == 0 {
		return nil
	}
	out := make([]HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, HistoryResponse{
			ID:             entry.ID,
			PreviousStatus: string(entry.PreviousStatus),
			NewStatus:      string(entry.NewStatus),
			ChangedBy:      entry.ChangedBy,
			ChangedAt:      entry.ChangedAt,
			Reason:         entry.Reason,
		})
	}
	return out
}

func auditLogResponses(items []ports.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, 0, len(items))
	for _, item := range items {
		out = append(out, AuditLogResponse{
			ID:          item.ID,
			Action:      item.Action,
			EntityType:  item.EntityType,
			EntityID:    item.EntityID,
			PerformedBy: item.PerformedBy,
			Details:     item.Details,
			IPAddress:   item.IPAddress,
			UserAgent:   item.UserAgent,
			CreatedAt:   item.CreatedAt,
		})
	}
	return out
}

func cardResponse(card domainkanban.Card) CardResponse {
	return CardResponse{
		ID:          card.ID,
		ColumnID:    card.ColumnID,
		ComplaintID: card.ComplaintID,
		Title:       card.Title,
		Description: card.Description,
		Order:       card.Order,
	}
}

func boardResponse(view kanban.BoardView) BoardResponse {
	out := BoardResponse{
		ID:          view.Board.ID,
		Title:       view.Board.Title,
		Description: view.Board.Description,
		Columns:     make([]ColumnResponse, 0, len(view.Columns)),
	}
	for _, column := range view.Columns {
		cards := make([]CardResponse, 0, len(column.Cards))
		for _, card := range column.Cards {
			cards = append(cards, cardResponse(card))
		}
		out.Columns = append(out.Columns, ColumnResponse{
			ID:       column.Column.ID,
			Name:     column.Column.Name,
			Position: column.Column.Position,
			Cards:    cards,
		})
	}
	return out
}
