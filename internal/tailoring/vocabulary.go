package tailoring

// vocabulary is the closed list of skill, technology, and soft-skill terms
// recognized during keyword extraction. It is static: not learned and not
// extensible at runtime.
var vocabulary = []string{
	"react", "javascript", "typescript", "python", "java", "node.js", "aws", "docker",
	"kubernetes", "sql", "mongodb", "postgresql", "git", "agile", "scrum", "ci/cd",
	"html", "css", "vue", "angular", "express", "django", "flask", "spring", "bootstrap",
	"tailwind", "sass", "webpack", "babel", "jest", "cypress", "selenium", "jenkins",
	"leadership", "management", "communication", "problem solving", "teamwork", "azure",
	"gcp", "terraform", "ansible", "redis", "elasticsearch", "graphql", "rest api",
	"microservices", "devops", "machine learning", "data analysis", "project management",
}
