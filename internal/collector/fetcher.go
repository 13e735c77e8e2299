package collector

import "AgencyEngine/internal/model"

// HistorySource supplies the completed-transfer history trends are computed from.
type HistorySource interface {
	CompletedTransfers() []model.CompletedTransfer
	Name() string
}

// StaticSource serves a fixed history. Used by tests and seeding.
type StaticSource struct {
	Transfers []model.CompletedTransfer
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) CompletedTransfers() []model.CompletedTransfer { return s.Transfers }
