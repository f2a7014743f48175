package emails

// Track is one of the knowledge tracks a new volunteer can complete on GitHub
type Track struct {
	Title       string
	Project     string
	Repo        string
	Description string
}

// Social is a community channel linked in the email footer
type Social struct {
	Name string
	URL  string
	Icon string
}

const tasksAPIDescription = "Este projeto tem como objetivo desenvolver uma API RESTful para gerenciamento de tarefas, " +
	"proporcionando funcionalidades de CRUD (Create, Read, Update, Delete) de tarefas, autenticação de usuários " +
	"e armazenamento dos dados em um banco de dados."

var tracks = []Track{
	{
		Title:   "Front-End",
		Project: "Página de Apresentação",
		Repo:    "TrilhaFrontEndJR-JUN15",
		Description: "Este projeto tem como objetivo criar uma página web onde os candidatos podem se apresentar, " +
			"compartilhar seus gostos pessoais e explicar por que desejam fazer parte da comunidade Codigo Certo Coders " +
			"e participar de projetos voluntários.",
	},
	{Title: "Back-End", Project: "API RESTful", Repo: "TrilhaBackEndJR-JUN15", Description: tasksAPIDescription},
	{Title: "Mobile", Project: "App de lista de tarefas", Repo: "TrilhaMobileJR-JUN15", Description: tasksAPIDescription},
	{Title: "Full-Stack", Project: "App de lista de tarefas", Repo: "TrilhaFullStackJR-JUN15", Description: tasksAPIDescription},
	{
		Title:   "QA",
		Project: "Plano de Teste",
		Repo:    "TrilhaQaJR-JUN15",
		Description: "Este projeto tem como objetivo principal desenvolver um plano de teste simples para o site da " +
			"comunidade Código Certo Coders. Este desafio ajudará a avaliar o conhecimento básico em testes de software, " +
			"incluindo planejamento, execução e reporte de testes.",
	},
	{
		Title:   "DevOps",
		Project: "Pipeline CI/CD",
		Repo:    "TrilhaDevOpsJR-JUN15",
		Description: "Este projeto tem como objetivo principal introduzir e praticar conceitos fundamentais de DevOps Jr " +
			"através da implementação de um pipeline de CI/CD para uma aplicação web simples.",
	},
	{
		Title:   "Dados",
		Project: "Análise de Dados Com Python",
		Repo:    "TrilhaDadosJR-JUN15",
		Description: "Este projeto tem como objetivo realizar uma análise básica de dados utilizando Python, explorando " +
			"um conjunto de dados pré-definido para extrair insights simples através de estatísticas descritivas e " +
			"visualizações gráficas.",
	},
	{
		Title:   "Design",
		Project: "UI/ UX de Página para Comunidade",
		Repo:    "TrilhaDesigner-JUN15",
		Description: "Este projeto tem como objetivo desenvolver a interface de usuário (UI) e a experiência do usuário " +
			"(UX) de uma página inicial para a comunidade Codigo Certo Coders.",
	},
}

var socials = []Social{
	{Name: "LinkedIn", URL: "https://www.linkedin.com/company/codigocertocoders/", Icon: "linkedin.png"},
	{Name: "Discord", URL: "https://discord.com/invite/y3GHwPvsMK", Icon: "discord.png"},
	{Name: "WhatsApp", URL: "https://chat.whatsapp.com/CDJL6tRT5apLRXW5PWqYLe", Icon: "whatsapp.png"},
	{Name: "GitHub", URL: "https://github.com/codigocerto", Icon: "github.png"},
}
