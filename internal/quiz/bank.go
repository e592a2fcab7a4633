package quiz

import "slices"

// Section titles shown above each question.
const (
	sectionGrammar    = "Грамматика"
	sectionVocabulary = "Лексика"
	sectionReading    = "Чтение"
	sectionListening  = "Аудирование"
	sectionWriting    = "Письмо"
	sectionSpeaking   = "Говорение"
)

const (
	autoPoints   = 5
	manualPoints = 10
)

var bank = []Question{
	// A1
	{
		ID: 1, Type: TypeGrammar, Level: LevelA1, SectionTitle: sectionGrammar,
		Prompt:        "She ___ a teacher.",
		Options:       []string{"am", "is", "are", "be"},
		CorrectAnswer: "is", Points: autoPoints,
	},
	{
		ID: 2, Type: TypeGrammar, Level: LevelA1, SectionTitle: sectionGrammar,
		Prompt:        "___ you like coffee?",
		Options:       []string{"Does", "Is", "Do", "Are"},
		CorrectAnswer: "Do", Points: autoPoints,
	},
	{
		ID: 3, Type: TypeVocabulary, Level: LevelA1, SectionTitle: sectionVocabulary,
		Prompt:        "Choose the word that means the opposite of \"big\".",
		Options:       []string{"tall", "small", "long", "old"},
		CorrectAnswer: "small", Points: autoPoints,
	},
	{
		ID: 4, Type: TypeListening, Level: LevelA1, SectionTitle: sectionListening,
		Prompt:        "Listen to the recording. What time does Anna get up?",
		Options:       []string{"At six o'clock", "At seven o'clock", "At eight o'clock", "At nine o'clock"},
		CorrectAnswer: "At seven o'clock", Points: autoPoints,
		ListeningText: "Hi, my name is Anna. I get up at seven o'clock every day. I have breakfast and then I go to work by bus.",
	},

	// A2
	{
		ID: 5, Type: TypeGrammar, Level: LevelA2, SectionTitle: sectionGrammar,
		Prompt:        "Yesterday we ___ to the cinema.",
		Options:       []string{"go", "went", "gone", "going"},
		CorrectAnswer: "went", Points: autoPoints,
	},
	{
		ID: 6, Type: TypeGrammar, Level: LevelA2, SectionTitle: sectionGrammar,
		Prompt:        "This book is ___ than that one.",
		Options:       []string{"interesting", "more interesting", "most interesting", "interestinger"},
		CorrectAnswer: "more interesting", Points: autoPoints,
	},
	{
		ID: 7, Type: TypeVocabulary, Level: LevelA2, SectionTitle: sectionVocabulary,
		Prompt:        "You use a ___ to open a door.",
		Options:       []string{"key", "spoon", "brush", "coin"},
		CorrectAnswer: "key", Points: autoPoints,
	},
	{
		ID: 8, Type: TypeReading, Level: LevelA2, SectionTitle: sectionReading,
		Prompt: "Read the note: \"Tom, I've gone to the shop to buy some milk. " +
			"Back in 20 minutes. Mum.\" Why did Mum go out?",
		Options:       []string{"To meet Tom", "To buy milk", "To go to work", "To post a letter"},
		CorrectAnswer: "To buy milk", Points: autoPoints,
	},

	// B1
	{
		ID: 9, Type: TypeGrammar, Level: LevelB1, SectionTitle: sectionGrammar,
		Prompt:        "I ___ here since 2015.",
		Options:       []string{"live", "am living", "have lived", "lived"},
		CorrectAnswer: "have lived", Points: autoPoints,
	},
	{
		ID: 10, Type: TypeGrammar, Level: LevelB1, SectionTitle: sectionGrammar,
		Prompt:        "If it rains tomorrow, we ___ at home.",
		Options:       []string{"stay", "will stay", "would stay", "stayed"},
		CorrectAnswer: "will stay", Points: autoPoints,
	},
	{
		ID: 11, Type: TypeReading, Level: LevelB1, SectionTitle: sectionReading,
		Prompt: "Read the text: \"Although the museum is free, visitors are asked to book " +
			"tickets online because the number of people inside is limited.\" Why should visitors book online?",
		Options: []string{
			"Because tickets are expensive",
			"Because only a limited number of people can enter",
			"Because the museum is closed",
			"Because there is a discount online",
		},
		CorrectAnswer: "Because only a limited number of people can enter", Points: autoPoints,
	},
	{
		ID: 12, Type: TypeListening, Level: LevelB1, SectionTitle: sectionListening,
		Prompt:        "Listen to the announcement. Why is the train late?",
		Options:       []string{"Bad weather", "A technical problem", "A strike", "Work on the line"},
		CorrectAnswer: "A technical problem", Points: autoPoints,
		ListeningText: "Attention please. The 10:15 train to Manchester is delayed by approximately twenty minutes " +
			"due to a technical problem. We apologise for any inconvenience.",
	},
	{
		ID: 13, Type: TypeWriting, Level: LevelB1, SectionTitle: sectionWriting,
		Prompt: "Write a short email (60-80 words) to a friend inviting them to your birthday party. " +
			"Say when and where it is and what you are going to do.",
		Points: manualPoints,
	},

	// B2
	{
		ID: 14, Type: TypeGrammar, Level: LevelB2, SectionTitle: sectionGrammar,
		Prompt:        "By the time we arrived, the film ___.",
		Options:       []string{"already started", "has already started", "had already started", "was already starting"},
		CorrectAnswer: "had already started", Points: autoPoints,
	},
	{
		ID: 15, Type: TypeGrammar, Level: LevelB2, SectionTitle: sectionGrammar,
		Prompt:        "The report ___ by the end of the week.",
		Options:       []string{"will finish", "will be finished", "is finishing", "finishes"},
		CorrectAnswer: "will be finished", Points: autoPoints,
	},
	{
		ID: 16, Type: TypeVocabulary, Level: LevelB2, SectionTitle: sectionVocabulary,
		Prompt:        "The company had to ___ the meeting because the director was ill.",
		Options:       []string{"put off", "put up", "put on", "put through"},
		CorrectAnswer: "put off", Points: autoPoints,
	},
	{
		ID: 17, Type: TypeSpeaking, Level: LevelB2, SectionTitle: sectionSpeaking,
		Prompt: "Imagine you are speaking for one to two minutes: describe a skill you would like " +
			"to learn and explain why. Write down what you would say.",
		Points: manualPoints,
	},

	// C1
	{
		ID: 18, Type: TypeGrammar, Level: LevelC1, SectionTitle: sectionGrammar,
		Prompt:        "Not only ___ late, but he also forgot the documents.",
		Options:       []string{"he arrived", "did he arrive", "he did arrive", "arrived he"},
		CorrectAnswer: "did he arrive", Points: autoPoints,
	},
	{
		ID: 19, Type: TypeGrammar, Level: LevelC1, SectionTitle: sectionGrammar,
		Prompt:        "I'd rather you ___ anyone about this.",
		Options:       []string{"don't tell", "didn't tell", "won't tell", "not tell"},
		CorrectAnswer: "didn't tell", Points: autoPoints,
	},
	{
		ID: 20, Type: TypeVocabulary, Level: LevelC1, SectionTitle: sectionVocabulary,
		Prompt:        "Her argument was so ___ that nobody could find a weakness in it.",
		Options:       []string{"compelling", "compulsive", "complacent", "compliant"},
		CorrectAnswer: "compelling", Points: autoPoints,
	},
	{
		ID: 21, Type: TypeReading, Level: LevelC1, SectionTitle: sectionReading,
		Prompt: "Read the text: \"While remote work has undeniably widened the talent pool, critics contend " +
			"that it erodes the informal exchanges from which innovation often springs.\" What do the critics claim?",
		Options: []string{
			"Remote work reduces the number of candidates",
			"Remote work weakens spontaneous communication that leads to new ideas",
			"Remote work makes employees less productive",
			"Remote work is more expensive for companies",
		},
		CorrectAnswer: "Remote work weakens spontaneous communication that leads to new ideas", Points: autoPoints,
	},

	// C2
	{
		ID: 22, Type: TypeGrammar, Level: LevelC2, SectionTitle: sectionGrammar,
		Prompt:        "Little ___ that the decision would change his life.",
		Options:       []string{"he knew", "did he know", "he did know", "knew he"},
		CorrectAnswer: "did he know", Points: autoPoints,
	},
	{
		ID: 23, Type: TypeVocabulary, Level: LevelC2, SectionTitle: sectionVocabulary,
		Prompt:        "The minister's speech was full of ___ promises that nobody took seriously.",
		Options:       []string{"hollow", "vacant", "barren", "void"},
		CorrectAnswer: "hollow", Points: autoPoints,
	},
	{
		ID: 24, Type: TypeVocabulary, Level: LevelC2, SectionTitle: sectionVocabulary,
		Prompt:        "Choose the word closest in meaning to \"ubiquitous\".",
		Options:       []string{"rare", "omnipresent", "ambiguous", "obsolete"},
		CorrectAnswer: "omnipresent", Points: autoPoints,
	},
}

// Bank returns the placement questions in presentation order. The returned
// slice is a copy.
func Bank() []Question {
	out := make([]Question, len(bank))
	for i, q := range bank {
		q.Options = slices.Clone(q.Options)
		out[i] = q
	}
	return out
}

// Lookup finds the question with the given id.
func Lookup(questions []Question, id int) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Filter returns the questions matching level and type. Empty filters
// match everything.
func Filter(questions []Question, level Level, typ QuestionType) []Question {
	var out []Question
	for _, q := range questions {
		if level != "" && q.Level != level {
			continue
		}
		if typ != "" && q.Type != typ {
			continue
		}
		out = append(out, q)
	}
	return out
}
