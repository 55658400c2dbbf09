package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/database/catalog"
	"github.com/mrlokans/locallibrary/internal/display"
	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/forms"
	"github.com/mrlokans/locallibrary/internal/integrity"
	"github.com/mrlokans/locallibrary/internal/validation"
)

const bookInstanceNotFound = "Book copy not found"

type BookInstancesController struct {
	Deps
	store BookInstanceStore
	guard *integrity.Guard
}

func NewBookInstancesController(store BookInstanceStore, guard *integrity.Guard, deps Deps) *BookInstancesController {
	return &BookInstancesController{Deps: deps, store: store, guard: guard}
}

// GET /catalog/bookinstance
func (ic *BookInstancesController) List(c *gin.Context) {
	instances, err := ic.store.ListBookInstances(c.Request.Context())
	if err != nil {
		ic.fail(c, err, "")
		return
	}
	c.HTML(http.StatusOK, "bookinstance_list", BookInstanceListPage{
		Page:      ic.page(c, "Book Instance List"),
		Instances: instances,
	})
}

// GET /catalog/bookinstance/:id
func (ic *BookInstancesController) Detail(c *gin.Context) {
	instance, err := ic.store.GetBookInstance(c.Request.Context(), c.Param("id"))
	if err != nil {
		ic.fail(c, err, bookInstanceNotFound)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_detail", BookInstanceDetailPage{
		Page:     ic.page(c, "Book: "+instance.Book.Title),
		Instance: instance,
	})
}

func (ic *BookInstancesController) renderForm(c *gin.Context, title string, instance *entities.BookInstance, book, dueBack string, errs []validation.FieldError) {
	books, err := ic.store.ListBooks(c.Request.Context())
	if err != nil {
		ic.fail(c, err, "")
		return
	}
	c.HTML(http.StatusOK, "bookinstance_form", BookInstanceFormPage{
		Page:         ic.page(c, title),
		Instance:     instance,
		Books:        books,
		SelectedBook: book,
		DueBack:      dueBack,
		Statuses:     entities.BookInstanceStatuses,
		Errors:       errs,
	})
}

// GET /catalog/bookinstance/create
func (ic *BookInstancesController) CreateForm(c *gin.Context) {
	ic.renderForm(c, "Create BookInstance", nil, "", "", nil)
}

func (ic *BookInstancesController) validate(c *gin.Context) (validation.Result, error) {
	result := forms.BookInstanceSchema.Validate(formValues(c))
	err := forms.CheckBookInstanceReferences(c.Request.Context(), ic.guard, &result)
	return result, err
}

// Create stores a new copy. Its status defaults to Maintenance and its
// due-back date to now.
// POST /catalog/bookinstance/create
func (ic *BookInstancesController) Create(c *gin.Context) {
	result, err := ic.validate(c)
	if err != nil {
		ic.fail(c, err, "")
		return
	}
	instance := forms.BookInstanceFromResult(result)

	if !result.Valid() {
		ic.invalid(entities.KindBookInstance, entities.AuditEventCreate)
		ic.renderForm(c, "Create BookInstance", &instance, instance.BookID, result.DateInput("due_back"), result.Errors)
		return
	}

	err = ic.store.CreateBookInstance(c.Request.Context(), &instance)
	ic.record(c, audit.Mutation{
		Type:  entities.AuditEventCreate,
		Kind:  entities.KindBookInstance,
		ID:    instance.ID,
		Label: instance.Imprint,
		Err:   err,
	})
	if err != nil {
		ic.fail(c, err, "")
		return
	}
	redirect(c, display.BookInstanceURL(instance.ID))
}

// GET /catalog/bookinstance/:id/update
func (ic *BookInstancesController) UpdateForm(c *gin.Context) {
	instance, err := ic.store.GetBookInstance(c.Request.Context(), c.Param("id"))
	if err != nil {
		ic.fail(c, err, bookInstanceNotFound)
		return
	}
	ic.renderForm(c, "Update BookInstance", instance, instance.BookID, display.DueBackISO(*instance), nil)
}

// POST /catalog/bookinstance/:id/update
func (ic *BookInstancesController) Update(c *gin.Context) {
	id := c.Param("id")
	result, err := ic.validate(c)
	if err != nil {
		ic.fail(c, err, "")
		return
	}
	instance := forms.BookInstanceFromResult(result)
	instance.ID = id

	if !result.Valid() {
		ic.invalid(entities.KindBookInstance, entities.AuditEventUpdate)
		ic.renderForm(c, "Update BookInstance", &instance, instance.BookID, result.DateInput("due_back"), result.Errors)
		return
	}

	err = ic.store.ReplaceBookInstance(c.Request.Context(), id, &instance)
	if errors.Is(err, catalog.ErrNotFound) {
		ic.fail(c, err, bookInstanceNotFound)
		return
	}
	ic.record(c, audit.Mutation{
		Type:  entities.AuditEventUpdate,
		Kind:  entities.KindBookInstance,
		ID:    id,
		Label: instance.Imprint,
		Err:   err,
	})
	if err != nil {
		ic.fail(c, err, "")
		return
	}
	redirect(c, display.BookInstanceURL(id))
}

// DeleteForm confirms the delete. Copies have no dependents, so there is
// nothing to list; a missing copy is NotFound.
// GET /catalog/bookinstance/:id/delete
func (ic *BookInstancesController) DeleteForm(c *gin.Context) {
	instance, err := ic.store.GetBookInstance(c.Request.Context(), c.Param("id"))
	if err != nil {
		ic.fail(c, err, bookInstanceNotFound)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_delete", BookInstanceDeletePage{
		Page:     ic.page(c, "Delete BookInstance"),
		Instance: instance,
	})
}

// Delete removes the copy and returns to its book. Nothing references a
// copy, so there is no dependents check.
// POST /catalog/bookinstance/:id/delete
func (ic *BookInstancesController) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	instance, err := ic.store.GetBookInstance(ctx, id)
	if err != nil {
		ic.fail(c, err, bookInstanceNotFound)
		return
	}

	err = ic.store.DeleteBookInstance(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		ic.fail(c, err, bookInstanceNotFound)
		return
	}
	ic.record(c, audit.Mutation{
		Type:  entities.AuditEventDelete,
		Kind:  entities.KindBookInstance,
		ID:    id,
		Label: instance.Imprint,
		Err:   err,
	})
	if err != nil {
		ic.fail(c, err, "")
		return
	}

	ic.flash(c, "Copy deleted: "+instance.Book.Title+" : "+instance.Imprint)
	redirect(c, display.BookURL(instance.BookID))
}
