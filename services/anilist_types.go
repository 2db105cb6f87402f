package services

import (
	"anicatalog/models"
)

// page is the Page { media [...] } wrapper used by list queries
type page struct {
	Media []models.MediaSummary `json:"media"`
}

func (p page) summaries() []models.MediaSummary {
	if p.Media == nil {
		return []models.MediaSummary{}
	}
	return p.Media
}

type personName struct {
	Full string `json:"full"`
}

type personImage struct {
	Medium string `json:"medium"`
}

type personNode struct {
	Name  personName  `json:"name"`
	Image personImage `json:"image"`
}

// aniListMedia mirrors the Media shape returned by DetailQuery
type aniListMedia struct {
	models.MediaSummary
	Duration   *int             `json:"duration"`
	StartDate  models.FuzzyDate `json:"startDate"`
	EndDate    models.FuzzyDate `json:"endDate"`
	Trailer    *models.Trailer  `json:"trailer"`
	Characters struct {
		Edges []struct {
			Role string     `json:"role"`
			Node personNode `json:"node"`
		} `json:"edges"`
	} `json:"characters"`
	Staff struct {
		Edges []struct {
			Role string     `json:"role"`
			Node personNode `json:"node"`
		} `json:"edges"`
	} `json:"staff"`
	Relations struct {
		Edges []struct {
			RelationType string `json:"relationType"`
			Node         struct {
				ID         int               `json:"id"`
				Type       string            `json:"type"`
				Format     string            `json:"format"`
				Title      models.Title      `json:"title"`
				CoverImage models.CoverImage `json:"coverImage"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"relations"`
	Studios struct {
		Nodes []models.Studio `json:"nodes"`
	} `json:"studios"`
}

func (m *aniListMedia) toDetail() *models.MediaDetail {
	detail := &models.MediaDetail{
		MediaSummary: m.MediaSummary,
		Duration:     m.Duration,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Characters:   make([]models.CharacterRole, 0, len(m.Characters.Edges)),
		Staff:        make([]models.StaffRole, 0, len(m.Staff.Edges)),
		Relations:    make([]models.Relation, 0, len(m.Relations.Edges)),
		Studios:      make([]models.Studio, 0, len(m.Studios.Nodes)),
	}
	if detail.Genres == nil {
		detail.Genres = []string{}
	}

	// Trailers with no id cannot be embedded
	if m.Trailer != nil && m.Trailer.ID != "" {
		detail.Trailer = m.Trailer
	}

	for _, edge := range m.Characters.Edges {
		detail.Characters = append(detail.Characters, models.CharacterRole{
			Name:  edge.Node.Name.Full,
			Image: edge.Node.Image.Medium,
			Role:  edge.Role,
		})
	}
	for _, edge := range m.Staff.Edges {
		detail.Staff = append(detail.Staff, models.StaffRole{
			Name:  edge.Node.Name.Full,
			Image: edge.Node.Image.Medium,
			Role:  edge.Role,
		})
	}
	for _, edge := range m.Relations.Edges {
		detail.Relations = append(detail.Relations, models.Relation{
			RelationType: edge.RelationType,
			ID:           edge.Node.ID,
			Title:        edge.Node.Title,
			Format:       edge.Node.Format,
			Type:         edge.Node.Type,
			CoverImage:   edge.Node.CoverImage,
		})
	}
	detail.Studios = append(detail.Studios, m.Studios.Nodes...)

	return detail
}
