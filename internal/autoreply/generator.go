package autoreply

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// Generator синтезирует приветствия и автоответы фрилансера.
// Источник случайности внедряется снаружи, чтобы тесты могли
// зафиксировать выбор через seed.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New создаёт генератор с заданным источником случайности.
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// NewSeeded создаёт генератор с детерминированным seed.
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

// keywordEntry связывает ключевое слово с пулом заготовленных ответов.
// Порядок записей фиксирован: побеждает первое совпавшее слово.
type keywordEntry struct {
	keyword   string
	responses []string
}

var keywordTable = []keywordEntry{
	{"price", []string{
		"Thanks for asking about pricing! I offer competitive rates and can provide a detailed quote based on your specific requirements. What's your budget range?",
		"I'd be happy to discuss pricing options with you. My rates are flexible and depend on the project scope. Could you share more details about your project?",
		"Pricing varies based on project complexity and timeline. I can provide a custom quote once I understand your needs better. What's your timeline?",
		"I offer transparent pricing with no hidden fees. Let me know your project details and I'll provide a fair quote. What's your budget?",
	}},
	{"cost", []string{
		"I offer competitive pricing that fits various budgets. Could you tell me more about your project so I can give you an accurate quote?",
		"My rates are reasonable and I'm happy to work within your budget. What's the scope of your project?",
		"I provide value for money with quality work. Let's discuss your requirements and I'll give you a fair price.",
	}},
	{"time", []string{
		"Great question about timing! I typically deliver projects within the agreed timeframe. What's your deadline for this project?",
		"I'm committed to meeting deadlines and keeping you updated throughout the process. When do you need this completed?",
		"Timeline depends on project scope, but I always communicate clearly about delivery dates. What's your preferred timeline?",
		"I work efficiently to meet your deadlines. How soon do you need this project completed?",
	}},
	{"deadline", []string{
		"I understand deadlines are important. I'll work efficiently to meet your timeline. When do you need this completed?",
		"I'm committed to delivering on time. Let me know your deadline and I'll ensure we meet it.",
		"Timely delivery is a priority for me. What's your target completion date?",
	}},
	{"experience", []string{
		"I have extensive experience in this field and have completed many successful projects. I'd be happy to share my portfolio with you.",
		"With years of experience, I bring expertise and reliability to every project. Would you like to see some of my previous work?",
		"I'm confident in my skills and experience. I can provide references and examples of my work if you'd like.",
		"I've worked on various projects and have a proven track record. Would you like to see some examples of my work?",
	}},
	{"portfolio", []string{
		"I'd be happy to share my portfolio with you! I have examples of my best work that showcase my skills and style.",
		"Absolutely! I can show you my portfolio with various projects I've completed. What type of work interests you most?",
		"I have a comprehensive portfolio demonstrating my expertise. Would you like me to share specific examples relevant to your project?",
		"My portfolio showcases my best work and demonstrates my capabilities. I'd love to share it with you!",
	}},
	{"work", []string{
		"I'd be happy to show you examples of my work. I have a portfolio that demonstrates my skills and style.",
		"I can share my previous projects with you. What type of work are you most interested in seeing?",
		"I have a collection of my best work that I can share. Would you like to see specific examples?",
	}},
	{"start", []string{
		"I'm ready to start working on your project! Let's discuss the details and get everything set up.",
		"Perfect! I'm excited to begin. Let me know what specific requirements you have and I'll get started right away.",
		"Great! I'm available to start immediately. What are the next steps you'd like to take?",
		"I'm ready to get started on your project. Let's finalize the details and begin!",
	}},
	{"begin", []string{
		"I'm ready to begin working on your project. Let's discuss the requirements and get started.",
		"Perfect! I'm excited to start. What specific details should we discuss first?",
		"Great! Let's get started. What are the key requirements for your project?",
	}},
	{"payment", []string{
		"I accept various payment methods and can discuss payment terms that work for both of us. What's your preferred payment method?",
		"Payment can be arranged through SkillBazar's secure system. I'm flexible with payment schedules. What works best for you?",
		"I offer secure payment options and can work with your preferred payment method. Let's discuss the payment terms.",
		"I'm flexible with payment arrangements. We can discuss terms that work for both of us.",
	}},
	{"pay", []string{
		"I accept multiple payment methods for your convenience. What payment option works best for you?",
		"Payment can be arranged securely through SkillBazar. I'm flexible with payment schedules.",
		"I offer various payment options to make it easy for you. Let's discuss what works best.",
	}},
	{"quality", []string{
		"I'm committed to delivering high-quality work that exceeds expectations. Quality is my top priority.",
		"I take pride in my work and always strive for excellence. You can expect top-notch results.",
		"Quality is non-negotiable for me. I ensure every project meets the highest standards.",
	}},
	{"revision", []string{
		"I offer revisions to ensure you're completely satisfied with the final result. Your satisfaction is important to me.",
		"I'm happy to make revisions until you're 100% satisfied. I want you to love the final product.",
		"I provide revision rounds to make sure the work meets your exact requirements.",
	}},
	{"urgent", []string{
		"I understand this is urgent. I'll prioritize your project and work efficiently to meet your timeline.",
		"I can accommodate urgent projects. Let me know your deadline and I'll ensure timely delivery.",
		"I'm available for urgent work and will work quickly to meet your needs.",
	}},
	{"quick", []string{
		"I can work quickly to meet your timeline. Let me know your deadline and I'll ensure fast delivery.",
		"I'm efficient and can complete projects quickly while maintaining quality. What's your timeline?",
		"I can work fast to meet your needs. How soon do you need this completed?",
	}},
}

var questionWords = []string{"what", "how", "when", "where", "why", "can you", "do you", "will you"}

var questionResponses = []string{
	"Great question! I'm %s and I'd be happy to help. Could you provide more details about your project?",
	"Thanks for asking! I'm %s. Let me know more about your requirements so I can give you a detailed answer.",
	"Good question! I'm %s. I'd love to discuss your project in detail to provide the best answer.",
}

var defaultResponses = []string{
	"Thanks for your message! I'm %s and I'm here to help with your project. Could you tell me more about what you need?",
	"Hi! I appreciate your interest. I'm %s and I'd love to discuss your project requirements in detail.",
	"Hello! I'm %s. I'm excited to work with you. What specific aspects of your project would you like to discuss?",
	"Thanks for reaching out! I'm %s. I'm ready to help bring your project to life. What are your main requirements?",
	"Hi there! I'm %s. I'm committed to delivering quality work. What can I help you with today?",
	"Hello! I'm %s. I'm here to help you with your project. What would you like to discuss?",
	"Hi! I'm %s. I'm excited to work with you. What project do you have in mind?",
	"Thanks for contacting me! I'm %s. I'd love to hear more about your project requirements.",
}

var welcomeMessages = []string{
	"Hi! I'm %s. Thanks for your interest in my services. How can I help you today?",
	"Hello! I'm %s. I'm excited to work with you. What project do you have in mind?",
	"Welcome! I'm %s. I'd love to discuss your project requirements. What are you looking for?",
	"Hi there! I'm %s. Ready to bring your ideas to life. What can I do for you?",
	"Hello! I'm %s. Let's discuss how I can help with your project. What do you need?",
}

// Welcome возвращает приветственное сообщение от имени фрилансера.
func (g *Generator) Welcome(freelancerName string) string {
	return fmt.Sprintf(g.pick(welcomeMessages), freelancerName)
}

// Reply подбирает ответ на сообщение покупателя: сначала таблица ключевых
// слов в фиксированном порядке, затем вопросительные слова, затем общий пул.
func (g *Generator) Reply(userMessage, freelancerName string) string {
	lower := strings.ToLower(userMessage)

	for _, entry := range keywordTable {
		if strings.Contains(lower, entry.keyword) {
			return g.pick(entry.responses)
		}
	}

	for _, word := range questionWords {
		if strings.Contains(lower, word) {
			return fmt.Sprintf(g.pick(questionResponses), freelancerName)
		}
	}

	return fmt.Sprintf(g.pick(defaultResponses), freelancerName)
}

// pick выбирает равновероятный элемент из пула.
func (g *Generator) pick(pool []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return pool[g.rng.Intn(len(pool))]
}
