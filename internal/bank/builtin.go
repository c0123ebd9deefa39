package bank

import "github.com/verte-zerg/tuiassess/internal/model"

// Default returns the built-in reading-comprehension bank.
func Default() Bank {
	return Bank{
		Practice: []model.Question{
			{
				ID:       "p1",
				Kind:     model.KindMultipleChoice,
				Practice: true,
				Tier:     model.TierMedium,
				Title:    "Practice Question 1",
				Passage:  "Climate change refers to long-term shifts in temperatures and weather patterns. These shifts may be natural, such as through variations in the solar cycle. But since the 1800s, human activities have been the main driver of climate change, primarily due to burning fossil fuels like coal, oil and gas.",
				Prompt:   "According to the passage, what has been the main driver of climate change since the 1800s?",
				Options: []string{
					"Natural variations in the solar cycle",
					"Human activities, primarily burning fossil fuels",
					"Changes in ocean temperatures",
					"Volcanic eruptions",
				},
				CorrectAnswer: "Human activities, primarily burning fossil fuels",
			},
			{
				ID:       "p2",
				Kind:     model.KindMultipleChoice,
				Practice: true,
				Tier:     model.TierMedium,
				Title:    "Practice Question 2",
				Passage:  "Photosynthesis is a process used by plants to convert light energy into chemical energy. During this process, plants take in carbon dioxide from the air and water from the soil. Using sunlight as energy, they convert these into glucose (a type of sugar) and oxygen. The oxygen is released back into the atmosphere.",
				Prompt:   "What do plants release into the atmosphere during photosynthesis?",
				Options: []string{
					"Carbon dioxide",
					"Glucose",
					"Oxygen",
					"Water",
				},
				CorrectAnswer: "Oxygen",
			},
			{
				ID:       "p3",
				Kind:     model.KindMultipleChoice,
				Practice: true,
				Tier:     model.TierMedium,
				Title:    "Practice Question 3",
				Passage:  "The water cycle describes how water evaporates from the surface of the earth, rises into the atmosphere, cools and condenses into rain or snow in clouds, and falls again to the surface as precipitation. The water that falls to Earth as precipitation can flow into rivers, lakes, and oceans, or it can seep into the ground to become groundwater.",
				Prompt:   "What happens to water after it evaporates from the Earth's surface?",
				Options: []string{
					"It immediately falls as rain",
					"It rises into the atmosphere and condenses into clouds",
					"It becomes groundwater",
					"It flows into rivers and oceans",
				},
				CorrectAnswer: "It rises into the atmosphere and condenses into clouds",
			},
		},
		Main: map[model.Tier][]model.Question{
			model.TierEasy: {
				{
					ID:      "e1",
					Kind:    model.KindMultipleChoice,
					Tier:    model.TierEasy,
					Title:   "Reading Comprehension",
					Passage: "The library is a place where books are kept for people to read or borrow. Libraries have existed for thousands of years. Ancient libraries stored information on clay tablets and papyrus scrolls. Today's libraries contain books, magazines, newspapers, and digital resources like computers and e-books. Many libraries also offer programs such as reading clubs, homework help, and community events.",
					Prompt:  "What is the main purpose of a library?",
					Options: []string{
						"To sell books to people",
						"To keep books for people to read or borrow",
						"To store ancient clay tablets",
						"To organize community events only",
					},
					CorrectAnswer: "To keep books for people to read or borrow",
				},
				{
					ID:      "e2",
					Kind:    model.KindMultipleChoice,
					Tier:    model.TierEasy,
					Title:   "Reading Comprehension",
					Passage: "Bees are important insects that help plants grow. They do this through a process called pollination. When a bee visits a flower to drink nectar, pollen sticks to its body. As the bee moves from flower to flower, it transfers this pollen, helping plants produce seeds and fruit. Without bees, many plants would not be able to reproduce.",
					Prompt:  "How do bees help plants grow?",
					Options: []string{
						"By eating the leaves",
						"By transferring pollen between flowers",
						"By watering the plants",
						"By protecting them from other insects",
					},
					CorrectAnswer: "By transferring pollen between flowers",
				},
			},
			model.TierMedium: {
				{
					ID:      "m1",
					Kind:    model.KindMultipleChoice,
					Tier:    model.TierMedium,
					Title:   "Critical Reading",
					Passage: "Artificial Intelligence (AI) is transforming industries worldwide. From healthcare to finance, AI systems can analyze vast amounts of data faster than humans. However, this technology also raises ethical concerns. Privacy issues arise when AI systems collect personal data. There are also fears about job displacement as machines take over tasks previously performed by humans. Despite these concerns, many experts believe that AI will ultimately benefit society if developed responsibly.",
					Prompt:  "What is one concern mentioned about AI in the passage?",
					Options: []string{
						"AI cannot analyze data as well as humans",
						"AI systems raise privacy concerns",
						"AI is too expensive to implement",
						"AI cannot be used in healthcare",
					},
					CorrectAnswer: "AI systems raise privacy concerns",
				},
			},
			model.TierHard: {
				{
					ID:      "h1",
					Kind:    model.KindMultipleChoice,
					Tier:    model.TierHard,
					Title:   "Advanced Analysis",
					Passage: "Quantum computing represents a paradigm shift in computational capability. Unlike classical computers that process information in binary bits (0s and 1s), quantum computers use quantum bits or 'qubits' that can exist in multiple states simultaneously through superposition. This property, combined with quantum entanglement, allows quantum computers to solve certain problems exponentially faster than classical computers. However, quantum systems are extremely fragile and require near-absolute zero temperatures to function, making them impractical for everyday use currently.",
					Prompt:  "What makes quantum computers potentially more powerful than classical computers?",
					Options: []string{
						"They operate at room temperature",
						"They use binary processing like classical computers",
						"Qubits can exist in multiple states simultaneously",
						"They are more affordable to manufacture",
					},
					CorrectAnswer: "Qubits can exist in multiple states simultaneously",
				},
			},
		},
	}
}
