package console

// Section is one protected area of the admin console.
type Section struct {
	Title string
	Path  string
}

// Sections are the CRUD areas an administrator can open.
var Sections = []Section{
	{Title: "News", Path: "/news"},
	{Title: "Breaking News", Path: "/breaking-news"},
	{Title: "Just In", Path: "/just-in"},
	{Title: "Classifieds", Path: "/classifieds"},
	{Title: "Polls", Path: "/polls"},
	{Title: "Customers", Path: "/customers"},
	{Title: "Subscriptions", Path: "/subscriptions"},
}

func sectionIndex(path string) int {
	for i, s := range Sections {
		if s.Path == path {
			return i
		}
	}
	return -1
}
