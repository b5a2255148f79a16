package client

import (
	"context"

	"seo-dashboard/pkg/pagination"
)

// Feed walks the pages of one integration for one user, keeping the page
// number inside the bounds the server last reported. A Feed is not safe for
// concurrent use.
type Feed struct {
	client *Client
	kind   string
	userID string
	pager  *pagination.Pager
}

func (c *Client) Feed(kind, userID string) *Feed {
	return &Feed{client: c, kind: kind, userID: userID, pager: pagination.NewPager(0)}
}

func (f *Feed) Pager() *pagination.Pager { return f.pager }

// Load fetches the current page and updates the page count from the answer.
func (f *Feed) Load(ctx context.Context) (Page, error) {
	p, err := f.client.FetchData(ctx, f.kind, f.userID, f.pager.CurrentPage())
	if err != nil {
		return Page{}, err
	}
	f.pager.SetTotalPages(p.TotalPages)
	return p, nil
}

// GoTo loads page. It reports false without a request when page is outside
// [1, TotalPages].
func (f *Feed) GoTo(ctx context.Context, page int) (Page, bool, error) {
	if !f.pager.GoToPage(page) {
		return Page{}, false, nil
	}
	p, err := f.Load(ctx)
	return p, err == nil, err
}

func (f *Feed) Next(ctx context.Context) (Page, bool, error) {
	return f.GoTo(ctx, f.pager.CurrentPage()+1)
}

func (f *Feed) Prev(ctx context.Context) (Page, bool, error) {
	return f.GoTo(ctx, f.pager.CurrentPage()-1)
}
