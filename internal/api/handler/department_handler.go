package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffhub/employee-api/internal/core/ports"
)

type DepartmentHandler struct {
	service ports.DepartmentService
}

func NewDepartmentHandler(service ports.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: service}
}

type createDepartmentRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type updateDepartmentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List returns all departments.
//
// @Summary      List departments
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Department
// @Failure      401  {object}  errorResponse
// @Router       /departments [get]
func (h *DepartmentHandler) List(c echo.Context) error {
	departments, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, departments)
}

// Create adds a department.
//
// @Summary      Create a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDepartmentRequest  true  "Department details"
// @Success      201   {object}  domain.Department
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /departments [post]
func (h *DepartmentHandler) Create(c echo.Context) error {
	var req createDepartmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	department, err := h.service.Create(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, department)
}

// Update applies a partial update; omitted fields keep their values.
//
// @Summary      Update a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Department id"
// @Param        body  body      updateDepartmentRequest  true  "Fields to change"
// @Success      200   {object}  domain.Department
// @Failure      404   {object}  errorResponse
// @Router       /departments/{id} [put]
func (h *DepartmentHandler) Update(c echo.Context) error {
	var req updateDepartmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	department, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateDepartmentInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, department)
}

// Delete removes a department. Employees referencing it are left untouched.
//
// @Summary      Delete a department
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Department id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  errorResponse
// @Router       /departments/{id} [delete]
func (h *DepartmentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "department removed"})
}
