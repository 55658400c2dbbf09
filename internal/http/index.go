package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/locallibrary/internal/database/catalog"
)

type IndexController struct {
	Deps
	store CountStore
}

func NewIndexController(store CountStore, deps Deps) *IndexController {
	return &IndexController{Deps: deps, store: store}
}

// Index renders the catalog home page with record counts.
// GET /catalog
func (ic *IndexController) Index(c *gin.Context) {
	var counts catalog.CatalogCounts

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		counts.Books, err = ic.store.CountBooks(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.BookInstances, err = ic.store.CountBookInstances(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.AvailableInstances, err = ic.store.CountAvailableBookInstances(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.Authors, err = ic.store.CountAuthors(ctx)
		return err
	})
	g.Go(func() (err error) {
		counts.Genres, err = ic.store.CountGenres(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		ic.fail(c, err, "")
		return
	}

	c.HTML(http.StatusOK, "index", IndexPage{
		Page:   ic.page(c, "Local Library Home"),
		Counts: counts,
	})
}
