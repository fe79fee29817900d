package quiz

import "portal/backend/models"

// DefaultBank is the built-in training quiz covering the video library.
func DefaultBank() []models.Question {
	return []models.Question{
		{
			ID:       1,
			Question: `"Work like someone is trying to take it all away from you" primarily means:`,
			Options: []string{
				"A) Avoid competition by switching industries often",
				"B) Outwork others and stay more prepared than competitors",
				"C) Focus only on networking",
				"D) Let your team handle the hard work",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       2,
			Question: "The #1 reasons people fail (video 1) are:",
			Options: []string{
				"A) Bad luck and bad timing",
				"B) Lack of money and lack of connections",
				"C) Lack of brains and lack of effort",
				"D) Too much competition and too many rules",
			},
			CorrectAnswer: "C",
		},
		{
			ID:       3,
			Question: `In business, you are "never in a vacuum" because:`,
			Options: []string{
				"A) Customers always prefer the cheapest option",
				"B) There will almost always be competition",
				"C) Marketing doesn't work anymore",
				"D) Employees are the main problem",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       4,
			Question: "You're likely to lose when:",
			Options: []string{
				"A) Your competitors know less than you do",
				"B) You have a nicer website than others",
				"C) Competitors know more about the business/customers than you do",
				"D) You have too many product options",
			},
			CorrectAnswer: "C",
		},
		{
			ID:       5,
			Question: "The questions you ask reveal most about your:",
			Options: []string{
				"A) Personality type",
				"B) Preparation and knowledge",
				"C) Social status",
				"D) Creativity",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       6,
			Question: `Asking "basic questions you should've already known" tends to:`,
			Options: []string{
				"A) Impress experienced entrepreneurs",
				"B) Disqualify you more than almost anything else",
				"C) Prove you're humble",
				"D) Make you seem confident",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       7,
			Question: `Cuban says the greatest source of "paranoia" should be:`,
			Options: []string{
				"A) New employees",
				"B) Social media",
				"C) Knowledge and learning",
				"D) Customers' moods",
			},
			CorrectAnswer: "C",
		},
		{
			ID:       8,
			Question: `A "healthy dose of paranoia" means you should:`,
			Options: []string{
				"A) Ignore competitors to stay focused",
				"B) Assume everyone is cheating",
				"C) Anticipate how others could beat you before they do",
				"D) Only copy what others do",
			},
			CorrectAnswer: "C",
		},
		{
			ID:       9,
			Question: `Cuban's view on "drop out of school" advice is:`,
			Options: []string{
				"A) It's always correct",
				"B) It's correct for most people",
				"C) People who say that are idiots",
				"D) It depends on your GPA",
			},
			CorrectAnswer: "C",
		},
		{
			ID:       10,
			Question: "Understanding accounting/finance matters because:",
			Options: []string{
				"A) It replaces sales skills",
				"B) It's the language of business and affects decisions (profit vs cash, etc.)",
				"C) It guarantees funding",
				"D) It makes competition irrelevant",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       11,
			Question: "The most important thing Cuban says he learned in college was:",
			Options: []string{
				"A) How to network",
				"B) How to market",
				"C) How to learn",
				"D) How to code",
			},
			CorrectAnswer: "C",
		},
		{
			ID:       12,
			Question: "For growing a business faster, the key first step is:",
			Options: []string{
				"A) Perfecting the product before selling",
				"B) Getting the first customer commitment",
				"C) Hiring a big sales team immediately",
				"D) Raising money before testing demand",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       13,
			Question: "Before doing a detailed roof damage inspection, you should first:",
			Options: []string{
				"A) Start circling hail hits",
				"B) Identify/document what the roof looks like from multiple sides/angles",
				"C) Remove shingles to check underneath",
				"D) Only inspect the front elevation",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       14,
			Question: `"Picture, picture, picture" and labeling roof sides (front/rear/left/right) is mainly to:`,
			Options: []string{
				"A) Make the roof look worse",
				"B) Ensure anyone reviewing understands what you saw and where it was",
				"C) Avoid needing measurements",
				"D) Replace the need for written notes",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       15,
			Question: "Soft metals are checked early because:",
			Options: []string{
				"A) They're easiest to replace",
				"B) They show the most visible signs of hail damage",
				"C) They determine the policy type",
				"D) They stop leaks instantly",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       16,
			Question: "A good way to visually reveal hail hits on vents is to:",
			Options: []string{
				"A) Spray water and wait",
				"B) Use chalk and rub it across the vent to highlight impacts",
				"C) Paint the vent",
				"D) Kick debris off the vent",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       17,
			Question: "Using a tape measure on a dent is mainly to:",
			Options: []string{
				"A) Prove the roofer owns a tape measure",
				"B) Show the size/scale of the damage clearly in photos",
				"C) Determine roof age",
				"D) Count total shingles",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       18,
			Question: "The vent nailing detail matters because:",
			Options: []string{
				"A) It changes the roof pitch",
				"B) Replacing the vent can require addressing shingles underneath due to nail holes",
				"C) It voids all warranties automatically",
				"D) It guarantees full roof replacement",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       19,
			Question: "The correct order for determining repairability is:",
			Options: []string{
				"A) True repairability test → brilliance test → visual inspection",
				"B) Visual inspection → brilliance test → true repairability test",
				"C) Brilliance test → visual inspection → true repairability test",
				"D) Only the brilliance test is needed",
			},
			CorrectAnswer: "B",
		},
		{
			ID:       20,
			Question: `A "ghost product" tactic works mainly because it:`,
			Options: []string{
				"A) Adds pressure by raising prices",
				"B) Builds trust by acting in the buyer's interest (often giving away low-margin items)",
				"C) Avoids explaining how to use products",
				"D) Confuses the buyer into buying more",
			},
			CorrectAnswer: "B",
		},
	}
}
