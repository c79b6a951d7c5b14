package refresh

// View names a refetchable view.
type View int

const (
	Catalog View = iota
	Loans
	Fines
	Borrowers
	Stats
)

func (v View) String() string {
	switch v {
	case Catalog:
		return "catalog"
	case Loans:
		return "loans"
	case Fines:
		return "fines"
	case Borrowers:
		return "borrowers"
	case Stats:
		return "stats"
	default:
		return "unknown"
	}
}

// Mutation names a state-changing operation.
type Mutation int

const (
	Checkin Mutation = iota
	Checkout
	ApplyFine
	PayFines
	CreateBorrower
	RefreshFines
)

func (m Mutation) String() string {
	switch m {
	case Checkin:
		return "checkin"
	case Checkout:
		return "checkout"
	case ApplyFine:
		return "apply fine"
	case PayFines:
		return "pay fines"
	case CreateBorrower:
		return "create borrower"
	case RefreshFines:
		return "refresh fines"
	default:
		return "unknown"
	}
}

type target struct {
	view          View
	onlyIfVisible bool
}

var policy = map[Mutation][]target{
	Checkin:        {{view: Loans}, {view: Stats}},
	Checkout:       {{view: Catalog, onlyIfVisible: true}, {view: Stats}},
	ApplyFine:      {{view: Fines}, {view: Loans}},
	PayFines:       {{view: Fines}, {view: Stats}},
	CreateBorrower: {{view: Borrowers}},
	RefreshFines:   {{view: Fines}, {view: Stats}},
}

// Plan returns the views to refetch after a successful mutation, in a fixed
// order. visible may be nil, in which case visibility-gated views are
// skipped.
func Plan(m Mutation, visible func(View) bool) []View {
	var views []View
	for _, t := range policy[m] {
		if t.onlyIfVisible && (visible == nil || !visible(t.view)) {
			continue
		}
		views = append(views, t.view)
	}
	return views
}
