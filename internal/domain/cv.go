package domain

// CVDocument is the composed, cacheable view of one user's CV.
// Its JSON form is the cache serialization contract.
type CVDocument struct {
	ID          string         `json:"id"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Title       string         `json:"title"`
	Image       string         `json:"image"`
	Summary     string         `json:"summary"`
	Email       string         `json:"email"`
	Experiences []CVExperience `json:"experiences"`
	Projects    []CVProject    `json:"projects"`
	Feedbacks   []CVFeedback   `json:"feedbacks"`
}

type CVExperience struct {
	ID          uint    `json:"id"`
	UserID      string  `json:"userId"`
	CompanyName string  `json:"companyName"`
	Role        string  `json:"role"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Description string  `json:"description"`
}

type CVProject struct {
	ID          uint   `json:"id"`
	UserID      string `json:"userId"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

type CVFeedback struct {
	ID          uint   `json:"id"`
	FromUser    string `json:"fromUser"`
	CompanyName string `json:"companyName"`
	ToUser      string `json:"toUser"`
	Content     string `json:"content"`
}

// NewCVDocument projects a user and their records into the public CV shape.
func NewCVDocument(user *User, experiences []*Experience, projects []*Project, feedbacks []*Feedback) *CVDocument {
	doc := &CVDocument{
		ID:          user.ID.String(),
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Title:       user.Title,
		Image:       user.Image,
		Summary:     user.Summary,
		Email:       user.Email,
		Experiences: make([]CVExperience, 0, len(experiences)),
		Projects:    make([]CVProject, 0, len(projects)),
		Feedbacks:   make([]CVFeedback, 0, len(feedbacks)),
	}

	for _, e := range experiences {
		doc.Experiences = append(doc.Experiences, e.View())
	}
	for _, p := range projects {
		doc.Projects = append(doc.Projects, p.View())
	}
	for _, f := range feedbacks {
		doc.Feedbacks = append(doc.Feedbacks, f.View())
	}

	return doc
}

// View projects the experience into its public shape.
func (e *Experience) View() CVExperience {
	return CVExperience{
		ID:          e.ID,
		UserID:      e.UserID.String(),
		CompanyName: e.CompanyName,
		Role:        e.Role,
		StartDate:   FormatDate(e.StartDate),
		EndDate:     FormatEndDate(e.EndDate),
		Description: e.Description,
	}
}

func (p *Project) View() CVProject {
	return CVProject{
		ID:          p.ID,
		UserID:      p.UserID.String(),
		Image:       p.Image,
		Description: p.Description,
	}
}

func (f *Feedback) View() CVFeedback {
	return CVFeedback{
		ID:          f.ID,
		FromUser:    f.FromUser.String(),
		CompanyName: f.CompanyName,
		ToUser:      f.ToUser.String(),
		Content:     f.Content,
	}
}
