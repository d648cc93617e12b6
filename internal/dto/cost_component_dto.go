package dto

type CreateCostComponentRequest struct {
	Name          string  `json:"name"           validate:"required,min=2,max=100"`
	Description   *string `json:"description"`
	ComponentType string  `json:"component_type" validate:"required,oneof=direct_material direct_labor overhead packaging other"`
}

type UpdateCostComponentRequest struct {
	Name          *string `json:"name"           validate:"omitempty,min=2,max=100"`
	Description   *string `json:"description"`
	ComponentType *string `json:"component_type" validate:"omitempty,oneof=direct_material direct_labor overhead packaging other"`
}

type CostComponentResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	ComponentType string  `json:"component_type"`
}
