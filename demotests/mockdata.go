package demotests

// MockUser is the account the suites register and log in with.
var MockUser = struct {
	Username string
	Password string
}{
	Username: "Marty_McFly",
	Password: "Ac1d1f1c4t10n@sh4rk",
}

// MockPost is one blog post used as test data.
type MockPost struct {
	Title string
	Body  string
}

// MockPosts are the posts the blog cases create, edit, and delete.
var MockPosts = []MockPost{
	{Title: "Finite time", Body: "Chances last a finite time"},
	{Title: "Walt Disney", Body: "Seven months of suicide"},
	{Title: "Turned away", Body: "Turn back the clock\nFall onto the ground"},
}
