package editor

// Row is one summary line of the list or of a sub-list.
type Row struct {
	ID       string
	Title    string
	Subtitle string
	Selected bool
}

// Detail is the read-only rendering of a selected sub-row.
type Detail struct {
	Title string
	Lines []string
}

type FieldView struct {
	Field
	Value   string
	Flagged bool
}

type Confirm struct {
	Title    string
	Message  string
	RecordID string
}

// Screen is everything a page needs to draw one editor.
type Screen struct {
	Kind  string
	Label string
	Mode  Mode

	FilterKey    string
	ListDisabled bool
	Rows         []Row

	RecordID    string
	Editable    bool
	Fields      []FieldView
	FormMessage string

	CanAdd    bool
	CanEdit   bool
	CanDelete bool

	Children    []Row
	ChildDetail *Detail

	Confirm      *Confirm
	Dialog       *Dialog
	Notification string
}

func (e *Editor[T]) Screen(v *View[T]) Screen {
	editing := v.IsEditing()
	s := Screen{
		Kind:         e.binding.Kind(),
		Label:        e.binding.Label(),
		Mode:         v.Mode,
		FilterKey:    v.FilterKey,
		ListDisabled: editing,
		Editable:     editing,
		FormMessage:  v.FormMessage,
		CanAdd:       !editing,
		CanEdit:      !editing && v.Current != nil,
		CanDelete:    !editing && v.Current != nil,
		Dialog:       v.Dialog,
		Notification: v.Notification,
	}
	if s.Mode == "" {
		s.Mode = Browsing
	}

	for _, rec := range v.Results {
		title, subtitle := e.binding.Summary(rec)
		id := e.binding.RecordID(rec)
		s.Rows = append(s.Rows, Row{
			ID:       id,
			Title:    title,
			Subtitle: subtitle,
			Selected: v.Mode != Adding && id != "" && id == v.SelectedID,
		})
	}

	if v.Mode != Adding && v.Current != nil {
		s.RecordID = e.binding.RecordID(*v.Current)
	}

	flagged := make(map[string]bool, len(v.Flagged))
	for _, name := range v.Flagged {
		flagged[name] = true
	}
	for _, f := range e.binding.Fields() {
		s.Fields = append(s.Fields, FieldView{Field: f, Value: v.Form[f.Name], Flagged: flagged[f.Name]})
	}

	if children, ok := e.binding.(Children[T]); ok && v.Mode != Adding && v.Current != nil {
		for _, row := range children.ChildRows(*v.Current) {
			row.Selected = row.ID == v.ChildID
			s.Children = append(s.Children, row)
		}
		if v.ChildID != "" {
			if d, found := children.ChildDetail(*v.Current, v.ChildID); found {
				s.ChildDetail = &d
			}
		}
	}

	if v.PendingDelete != "" {
		s.Confirm = &Confirm{
			Title:    "Delete " + e.binding.Label(),
			Message:  deleteConfirmMessage,
			RecordID: v.PendingDelete,
		}
	}
	return s
}
