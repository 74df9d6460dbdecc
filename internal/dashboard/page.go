// Package dashboard holds the admin shell: which page is active, the panel it
// shows and the collection counts on the landing page.
package dashboard

type Page int

const (
	PageDashboard Page = iota
	PageCategories
	PageProducts
	PageUsers
	PageOrders
)

// Pages lists every page in navigation order.
func Pages() []Page {
	return []Page{PageDashboard, PageCategories, PageProducts, PageUsers, PageOrders}
}

func (p Page) String() string {
	switch p {
	case PageDashboard:
		return "dashboard"
	case PageCategories:
		return "categories"
	case PageProducts:
		return "products"
	case PageUsers:
		return "users"
	case PageOrders:
		return "orders"
	}
	return "unknown"
}

func (p Page) Title() string {
	switch p {
	case PageDashboard:
		return "Dashboard"
	case PageCategories:
		return "Categories"
	case PageProducts:
		return "Products"
	case PageUsers:
		return "Users"
	case PageOrders:
		return "Orders"
	}
	return "Unknown"
}

// ParsePage maps a query value to a page. An empty value selects the dashboard.
func ParsePage(s string) (Page, bool) {
	if s == "" {
		return PageDashboard, true
	}
	for _, p := range Pages() {
		if p.String() == s {
			return p, true
		}
	}
	return PageDashboard, false
}
