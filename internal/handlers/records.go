package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vancomm/chainreaction-server/internal/repository"
)

type Records struct {
	logger *slog.Logger
	repo   *repository.Queries
}

func NewRecords(logger *slog.Logger, db repository.DBTX) *Records {
	return &Records{logger: logger, repo: repository.New(db)}
}

func (h Records) List(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseRecordsDTO(r.URL.Query())
	if err != nil {
		badRequest(w, h.logger, err)
		return
	}

	records, err := h.repo.FetchRecords(r.Context(), filter)
	if err != nil {
		internalError(w, h.logger, "unable to fetch records", slog.Any("error", err))
		return
	}
	if records == nil {
		records = []repository.Record{}
	}

	sendJSONOrLog(w, h.logger, records)
}
