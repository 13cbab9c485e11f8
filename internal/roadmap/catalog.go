package roadmap

// CareerFieldDefinition is one entry of the static career catalog. The
// position of an entry in its catalog breaks ranking ties.
type CareerFieldDefinition struct {
	Field         string   `json:"field"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	CareerPaths   []string `json:"career_paths"`
	EducationPath string   `json:"education_path"`
	Skills        []string `json:"skills"`
	Requirements  []string `json:"requirements"`
	Color         string   `json:"color"`

	Weights Weights `json:"-"`
	Rules   []Rule  `json:"-"`
}

// Stream categories used by the catalog and by academic test ids.
const (
	StreamScience  = "Science"
	StreamCommerce = "Commerce"
	StreamArts     = "Arts"
)

// Streams lists the academic streams in reporting order.
var Streams = []string{StreamScience, StreamCommerce, StreamArts}

// DefaultCatalog returns the built-in career fields in tie-break order.
// Every call builds a fresh slice.
func DefaultCatalog() []CareerFieldDefinition {
	return []CareerFieldDefinition{
		{
			Field:         "Engineering & Technology",
			Category:      StreamScience,
			Description:   "Design, build and maintain machines, software, structures and systems.",
			CareerPaths:   []string{"Software Engineer", "Mechanical Engineer", "Civil Engineer", "Electronics Engineer", "Data Scientist"},
			EducationPath: "Science stream (PCM) → B.Tech / B.E. → M.Tech or industry certifications",
			Skills:        []string{"Mathematics", "Problem solving", "Programming", "Technical drawing"},
			Requirements:  []string{"Strong mathematics and physics", "Entrance exams such as JEE"},
			Color:         "#2563EB",
			Weights:       Weights{Aptitude: 0.35, Science: 0.40, Emotional: 0.05},
			Rules: []Rule{
				{Points: 20, Reason: "Strong logical and problem-solving aptitude", When: Above(MetricAptitude, 70)},
				{Points: 15, Reason: "Solid foundation in science subjects", When: Above(MetricScience, 60)},
				{Points: 10, Reason: "Interest in technology and innovation", When: HasInterest("Technology")},
				{Points: 5, Reason: "Visual learning style suits design and modelling work", When: LearningStyleIs("Visual")},
				{Points: -5, Reason: "Creative interests may pull away from highly technical work", When: HasInterest("Arts")},
			},
		},
		{
			Field:         "Medical & Health Sciences",
			Category:      StreamScience,
			Description:   "Diagnose, treat and care for patients and improve public health.",
			CareerPaths:   []string{"Doctor", "Dentist", "Pharmacist", "Nurse", "Physiotherapist"},
			EducationPath: "Science stream (PCB) → MBBS / BDS / B.Pharm / B.Sc Nursing → specialization",
			Skills:        []string{"Biology", "Empathy", "Attention to detail", "Stamina"},
			Requirements:  []string{"Strong biology and chemistry", "Entrance exams such as NEET"},
			Color:         "#DC2626",
			Weights:       Weights{Science: 0.40, Emotional: 0.25, Aptitude: 0.15},
			Rules: []Rule{
				{Points: 15, Reason: "Strong performance in science subjects", When: Above(MetricScience, 70)},
				{Points: 15, Reason: "High empathy suited to patient care", When: Above(MetricEmotional, 70)},
				{Points: 10, Reason: "Curiosity about the life sciences", When: HasInterest("Science")},
				{Points: 5, Reason: "Caring, people-oriented personality", When: PersonalityHas("Empathetic")},
				{Points: -10, Reason: "Patient-facing work demands stronger emotional resilience", When: Below(MetricEmotional, 40)},
			},
		},
		{
			Field:         "Pure Sciences & Research",
			Category:      StreamScience,
			Description:   "Investigate how the natural world works through experiment and theory.",
			CareerPaths:   []string{"Research Scientist", "Physicist", "Chemist", "Biotechnologist", "Statistician"},
			EducationPath: "Science stream → B.Sc → M.Sc → Ph.D",
			Skills:        []string{"Scientific method", "Mathematics", "Patience", "Technical writing"},
			Requirements:  []string{"Excellent science fundamentals", "Interest in long-term study"},
			Color:         "#7C3AED",
			Weights:       Weights{Science: 0.45, Aptitude: 0.30},
			Rules: []Rule{
				{Points: 15, Reason: "Aptitude for rigorous analytical reasoning", When: Above(MetricAptitude, 75)},
				{Points: 15, Reason: "Outstanding science scores", When: Above(MetricScience, 75)},
				{Points: 10, Reason: "Interest in research and discovery", When: HasInterest("Research")},
				{Points: 5, Reason: "Analytical, independent working style", When: PersonalityHas("Analytical")},
			},
		},
		{
			Field:         "Business & Management",
			Category:      StreamCommerce,
			Description:   "Lead teams, run organizations and build new ventures.",
			CareerPaths:   []string{"Business Manager", "Entrepreneur", "Marketing Manager", "HR Manager", "Consultant"},
			EducationPath: "Commerce stream → BBA / B.Com → MBA",
			Skills:        []string{"Leadership", "Communication", "Decision making", "Negotiation"},
			Requirements:  []string{"Good commerce fundamentals", "Strong interpersonal skills"},
			Color:         "#059669",
			Weights:       Weights{Commerce: 0.35, Emotional: 0.30, Aptitude: 0.15},
			Rules: []Rule{
				{Points: 15, Reason: "Good command of commerce subjects", When: Above(MetricCommerce, 60)},
				{Points: 15, Reason: "Strong interpersonal and leadership skills", When: Above(MetricEmotional, 70)},
				{Points: 10, Reason: "Interest in business and enterprise", When: HasInterest("Business")},
				{Points: 10, Reason: "Natural leadership personality", When: PersonalityHas("Leader")},
				{Points: 5, Reason: "Confident, outgoing personality profile", When: Above(MetricPersonality, 70)},
				{Points: -5, Reason: "Prefers independent analysis over leading teams", When: PersonalityHas("Analytical")},
			},
		},
		{
			Field:         "Finance & Accounting",
			Category:      StreamCommerce,
			Description:   "Manage money, investments, audits and financial planning.",
			CareerPaths:   []string{"Chartered Accountant", "Financial Analyst", "Investment Banker", "Actuary", "Auditor"},
			EducationPath: "Commerce stream (with Mathematics) → B.Com / CA / CFA → specialization",
			Skills:        []string{"Numerical reasoning", "Accounting", "Attention to detail", "Economics"},
			Requirements:  []string{"Strong mathematics", "Professional certifications"},
			Color:         "#D97706",
			Weights:       Weights{Commerce: 0.40, Aptitude: 0.35},
			Rules: []Rule{
				{Points: 20, Reason: "Strong numerical reasoning", When: Above(MetricAptitude, 70)},
				{Points: 15, Reason: "Solid understanding of accounts and economics", When: Above(MetricCommerce, 65)},
				{Points: 5, Reason: "Detail-oriented analytical mindset", When: PersonalityHas("Analytical")},
				{Points: 5, Reason: "Interest in business and markets", When: HasInterest("Business")},
			},
		},
		{
			Field:         "Law & Public Policy",
			Category:      StreamArts,
			Description:   "Interpret laws, argue cases and shape public institutions.",
			CareerPaths:   []string{"Lawyer", "Judge", "Civil Servant", "Policy Analyst", "Legal Advisor"},
			EducationPath: "Any stream (Arts preferred) → BA LLB / LLB → LLM or civil services",
			Skills:        []string{"Argumentation", "Reading comprehension", "Public speaking", "Ethics"},
			Requirements:  []string{"Strong language skills", "Entrance exams such as CLAT"},
			Color:         "#4B5563",
			Weights:       Weights{Arts: 0.35, Emotional: 0.25, Aptitude: 0.20},
			Rules: []Rule{
				{Points: 15, Reason: "Strong performance in humanities subjects", When: Above(MetricArts, 65)},
				{Points: 10, Reason: "Persuasive communication and empathy", When: Above(MetricEmotional, 65)},
				{Points: 10, Reason: "Interest in communication and debate", When: HasInterest("Communication")},
				{Points: 5, Reason: "Auditory learning suits argument and discussion", When: LearningStyleIs("Auditory")},
			},
		},
		{
			Field:         "Creative Arts & Design",
			Category:      StreamArts,
			Description:   "Create visual, written and performed work for audiences and products.",
			CareerPaths:   []string{"Graphic Designer", "Architect", "Animator", "Writer", "Fashion Designer"},
			EducationPath: "Any stream → B.Des / BFA / B.Arch → portfolio and specialization",
			Skills:        []string{"Creativity", "Visual thinking", "Storytelling", "Design tools"},
			Requirements:  []string{"Portfolio of work", "Design aptitude tests such as NID / UCEED"},
			Color:         "#DB2777",
			Weights:       Weights{Arts: 0.40, Emotional: 0.20},
			Rules: []Rule{
				{Points: 20, Reason: "Strong creative and humanities performance", When: Above(MetricArts, 70)},
				{Points: 15, Reason: "Passion for arts and creative expression", When: HasInterest("Arts")},
				{Points: 10, Reason: "Interest in design and aesthetics", When: HasInterest("Design")},
				{Points: 5, Reason: "Visual learning style suits creative work", When: LearningStyleIs("Visual")},
			},
		},
		{
			Field:         "Education & Social Work",
			Category:      StreamArts,
			Description:   "Teach, counsel and support individuals and communities.",
			CareerPaths:   []string{"Teacher", "Counselor", "Social Worker", "Psychologist", "NGO Program Manager"},
			EducationPath: "Any stream → BA / B.Ed / BSW → MA / MSW",
			Skills:        []string{"Empathy", "Communication", "Patience", "Mentoring"},
			Requirements:  []string{"Strong interpersonal skills", "Teaching or social work certification"},
			Color:         "#0891B2",
			Weights:       Weights{Emotional: 0.40, Arts: 0.25, Aptitude: 0.10},
			Rules: []Rule{
				{Points: 20, Reason: "High emotional intelligence for guiding others", When: Above(MetricEmotional, 75)},
				{Points: 10, Reason: "Desire to help and serve others", When: HasInterest("Social Service")},
				{Points: 10, Reason: "Empathetic personality", When: PersonalityHas("Empathetic")},
				{Points: 5, Reason: "Hands-on learning style suits fieldwork and teaching", When: LearningStyleIs("Kinesthetic")},
			},
		},
	}
}
