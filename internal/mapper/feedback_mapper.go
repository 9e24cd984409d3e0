package mapper

import (
	"encoding/json"

	"travel-assistant-be/internal/entity"
	"travel-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type FeedbackMapper struct{}

func NewFeedbackMapper() *FeedbackMapper {
	return &FeedbackMapper{}
}

func (m *FeedbackMapper) ToModel(e *entity.Feedback) *model.Feedback {
	var contextJson datatypes.JSON
	if e.Context != nil {
		if raw, err := json.Marshal(e.Context); err == nil {
			contextJson = datatypes.JSON(raw)
		}
	}
	return &model.Feedback{
		Id:         e.Id,
		ResponseId: e.ResponseId,
		Rating:     e.Rating,
		Comment:    e.Comment,
		Context:    contextJson,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *FeedbackMapper) ToEntity(mod *model.Feedback) *entity.Feedback {
	var context map[string]interface{}
	if len(mod.Context) > 0 {
		_ = json.Unmarshal(mod.Context, &context)
	}
	return &entity.Feedback{
		Id:         mod.Id,
		ResponseId: mod.ResponseId,
		Rating:     mod.Rating,
		Comment:    mod.Comment,
		Context:    context,
		CreatedAt:  mod.CreatedAt,
	}
}
