package webhook

// Filter decides whether a transaction event touches one of the watched
// contract addresses. It is pure: no state is read or written, so repeated
// calls with the same event always agree.
type Filter struct {
	contracts map[string]struct{}
}

// NewFilter builds a Filter over the given contract addresses.
func NewFilter(contracts []string) *Filter {
	f := &Filter{contracts: make(map[string]struct{}, len(contracts))}
	for _, c := range contracts {
		f.contracts[c] = struct{}{}
	}
	return f
}

// Relevant reports whether any accountData entry of the event references a
// watched contract.
func (f *Filter) Relevant(event *TransactionEvent) bool {
	for _, ad := range event.AccountData {
		if _, ok := f.contracts[ad.Account]; ok {
			return true
		}
	}
	return false
}

// Contracts returns the watched addresses, primarily for logging.
func (f *Filter) Contracts() []string {
	out := make([]string, 0, len(f.contracts))
	for c := range f.contracts {
		out = append(out, c)
	}
	return out
}
