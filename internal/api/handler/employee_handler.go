package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/staffhub/employee-api/internal/core/ports"
)

// EmployeeHandler handles HTTP requests for employee operations. Writes
// accept multipart forms so a profile photo can ride along with the fields.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// List returns one page of employees.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        pageNumber  query     int     false  "1-indexed page (default 1)"
// @Param        keyword     query     string  false  "Case-insensitive substring match on name"
// @Param        department  query     string  false  "Exact department id match"
// @Success      200         {object}  listEmployeesResponse
// @Failure      401         {object}  errorResponse
// @Router       /employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("pageNumber"))
	if page < 1 {
		page = 1
	}

	result, err := h.service.List(c.Request().Context(), ports.EmployeeFilter{
		Keyword:      c.QueryParam("keyword"),
		DepartmentID: c.QueryParam("department"),
	}, page)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListEmployeesResponse(result))
}

// Get returns a single employee by id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Employee id"
// @Success      200  {object}  employeeResponse
// @Failure      404  {object}  errorResponse
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	employee, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

// Create adds an employee from a multipart form with an optional
// profilePhoto file.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name          formData  string  true   "Full name"
// @Param        email         formData  string  true   "Email address"
// @Param        phone         formData  string  true   "Phone number"
// @Param        department    formData  string  true   "Department id"
// @Param        jobRole       formData  string  true   "Job role"
// @Param        profilePhoto  formData  file    false  "Profile photo"
// @Success      201  {object}  employeeResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	photo, closer, err := formPhoto(c)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	employee, err := h.service.Create(c.Request().Context(), ports.CreateEmployeeInput{
		Name:         c.FormValue("name"),
		Email:        c.FormValue("email"),
		Phone:        c.FormValue("phone"),
		DepartmentID: c.FormValue("department"),
		JobRole:      c.FormValue("jobRole"),
		Photo:        photo,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toEmployeeResponse(employee))
}

// Update applies a partial update from a multipart form. An omitted or empty
// form field keeps its previous value; a new profilePhoto replaces the old
// file.
//
// @Summary      Update an employee
// @Tags         employees
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id            path      string  true   "Employee id"
// @Param        name          formData  string  false  "Full name"
// @Param        email         formData  string  false  "Email address"
// @Param        phone         formData  string  false  "Phone number"
// @Param        department    formData  string  false  "Department id"
// @Param        jobRole       formData  string  false  "Job role"
// @Param        profilePhoto  formData  file    false  "Replacement profile photo"
// @Success      200  {object}  employeeResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	photo, closer, err := formPhoto(c)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	employee, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateEmployeeInput{
		Name:         optionalFormValue(c, "name"),
		Email:        optionalFormValue(c, "email"),
		Phone:        optionalFormValue(c, "phone"),
		DepartmentID: optionalFormValue(c, "department"),
		JobRole:      optionalFormValue(c, "jobRole"),
		Photo:        photo,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

// Delete removes an employee and its stored photo.
//
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Employee id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  errorResponse
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "employee removed"})
}

// formPhoto extracts the optional profilePhoto file from the multipart form.
// The returned closer must be closed by the caller when non-nil.
func formPhoto(c echo.Context) (*ports.PhotoUpload, multipart.File, error) {
	fh, err := c.FormFile("profilePhoto")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid photo upload")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid photo upload")
	}

	return &ports.PhotoUpload{Content: f, Filename: fh.Filename}, f, nil
}

// optionalFormValue distinguishes "not provided" from a value. An empty
// string counts as not provided: clearing a field to empty is unsupported.
func optionalFormValue(c echo.Context, name string) *string {
	v := c.FormValue(name)
	if v == "" {
		return nil
	}
	return &v
}
