package catalog

// Businesses run from cheap starters to premium ventures with long payback.
var defaultAssets = []Asset{
	{ID: "a1", Name: "Lemonade Stand", Cost: 80, Income: 6, Maint: 2, Icon: "🍋", Tier: TierStarter},
	{ID: "a2", Name: "Dog Walking", Cost: 90, Income: 7, Maint: 2, Icon: "🐕", Tier: TierStarter},
	{ID: "a3", Name: "Yard Care", Cost: 120, Income: 9, Maint: 3, Icon: "🌿", Tier: TierStarter},

	{ID: "a4", Name: "Candy Shop", Cost: 200, Income: 14, Maint: 5, Icon: "🍬", Tier: TierGrowth},
	{ID: "a5", Name: "Bike Rental", Cost: 240, Income: 16, Maint: 6, Icon: "🚲", Tier: TierGrowth},
	{ID: "a6", Name: "Art Studio", Cost: 220, Income: 15, Maint: 5, Icon: "🎨", Tier: TierGrowth},
	{ID: "a7", Name: "Pet Grooming", Cost: 180, Income: 13, Maint: 5, Icon: "🐩", Tier: TierGrowth},

	{ID: "a8", Name: "Arcade", Cost: 400, Income: 28, Maint: 10, Icon: "🕹️", Tier: TierPremium},
	{ID: "a9", Name: "Food Truck", Cost: 450, Income: 32, Maint: 12, Icon: "🚚", Tier: TierPremium},
	{ID: "a10", Name: "Music School", Cost: 500, Income: 38, Maint: 15, Icon: "🎵", Tier: TierPremium},
}

var defaultLifeEvents = []LifeEvent{
	{ID: "e1", Title: "Birthday Money!", Text: "Grandma sent a gift!", Amount: 25, Mood: "🥳"},
	{ID: "e2", Title: "Viral Video!", Text: "Your biz went viral!", Amount: 35, Mood: "🤩"},
	{ID: "e3", Title: "Garage Sale", Text: "Sold old stuff", Amount: 15, Mood: "😊"},
	{ID: "e4", Title: "Tip Jar Full!", Text: "Customers tipped big", Amount: 20, Mood: "😄"},
	{ID: "e5", Title: "School Prize", Text: "Won science fair", Amount: 30, Mood: "🥇"},
	{ID: "e6", Title: "Lucky Find", Text: "Found money in your jacket", Amount: 10, Mood: "🍀"},
	{ID: "e7", Title: "BBQ Sales", Text: "Sold lemonade at BBQ", Amount: 22, Mood: "☀️"},
	{ID: "e8", Title: "Partnership Win", Text: "Teamed up on big order", Amount: 28, Mood: "💪"},
	{ID: "e9", Title: "Festival Booth", Text: "Crushed it at the fair", Amount: 40, Mood: "🎉"},
	{ID: "e10", Title: "Snow Day Sales", Text: "Hot cocoa sold out", Amount: 18, Mood: "🧣"},

	{ID: "e11", Title: "Broken Window", Text: "Ball through the glass", Amount: -15, Mood: "😬"},
	{ID: "e12", Title: "Rainy Week", Text: "No foot traffic", Amount: -10, Mood: "😕"},
	{ID: "e13", Title: "Supply Shortage", Text: "Ingredients cost up", Amount: -12, Mood: "😤"},
	{ID: "e14", Title: "Pet Vet Bill", Text: "Hamster check-up", Amount: -20, Mood: "🏥"},
	{ID: "e15", Title: "Equipment Broke", Text: "Blender gave up", Amount: -18, Mood: "😩"},
	{ID: "e16", Title: "Power Outage", Text: "Lost a day of sales", Amount: -8, Mood: "😶"},
	{ID: "e17", Title: "Tax Time", Text: "Small business tax", Amount: -10, Mood: "📋"},
	{ID: "e18", Title: "Delivery Mishap", Text: "Wrong order sent", Amount: -14, Mood: "🤦"},
	{ID: "e19", Title: "Bike Flat", Text: "Tire popped mid-delivery", Amount: -6, Mood: "😐"},
	{ID: "e20", Title: "Health Inspection", Text: "Fine for messy shop", Amount: -12, Mood: "🧹"},
}

var defaultHustles = []Hustle{
	{ID: "h1", Title: "Mow 3 Lawns", Text: "Hard work pays off!", Amount: 20, Icon: "🌿"},
	{ID: "h2", Title: "Wash Cars", Text: "Scrub scrub sparkle!", Amount: 25, Icon: "🚗"},
	{ID: "h3", Title: "Tutor a Kid", Text: "Teaching is earning!", Amount: 18, Icon: "📚"},
	{ID: "h4", Title: "Babysitting", Text: "Responsible = rewarded!", Amount: 22, Icon: "👶"},
	{ID: "h5", Title: "Lemonade Boost", Text: "Extra stand this weekend", Amount: 15, Icon: "🍋"},
	{ID: "h6", Title: "Tech Help", Text: "Fixed Mrs. Chen's Wi-Fi", Amount: 30, Icon: "💻"},
	{ID: "h7", Title: "Pet Sitting", Text: "2 dogs + 1 cat = $$$", Amount: 20, Icon: "🐾"},
	{ID: "h8", Title: "Bake Sale", Text: "Cookies flew off table", Amount: 28, Icon: "🍪"},
}

var defaultTemptations = []Temptation{
	{ID: "t1", Name: "New Sneakers", Cost: 25, Icon: "👟", Text: "So fresh, so clean!"},
	{ID: "t2", Name: "Video Game", Cost: 30, Icon: "🎮", Text: "Everyone's playing it!"},
	{ID: "t3", Name: "Concert Ticket", Cost: 35, Icon: "🎤", Text: "Your fave artist!"},
	{ID: "t4", Name: "Phone Case", Cost: 15, Icon: "📱", Text: "Gotta protect the phone"},
	{ID: "t5", Name: "Skateboard", Cost: 40, Icon: "🛹", Text: "Ride in style!"},
	{ID: "t6", Name: "Movie Night", Cost: 12, Icon: "🍿", Text: "Popcorn included!"},
	{ID: "t7", Name: "Plush Toy", Cost: 18, Icon: "🧸", Text: "So soft and cuddly!"},
	{ID: "t8", Name: "Ice Cream", Cost: 8, Icon: "🍦", Text: "Triple scoop!"},
}

// QuizReward is the cash paid for a correct answer.
const QuizReward = 10

var defaultChallenges = []Challenge{
	{ID: "q3", Difficulty: DifficultyKids, Question: "What's the BEST use of $50?",
		Options:      []string{"Buy new sneakers", "Buy candy for a week", "Invest in a business that earns monthly income", "Hide it under your mattress"},
		CorrectIndex: 2, Reward: QuizReward, Explanation: "Investing makes money GROW! Sneakers lose value, businesses gain it!"},
	{ID: "q4", Difficulty: DifficultyKids, Question: "What is an emergency fund?",
		Options:      []string{"Money for toys", "Savings for unexpected problems", "A type of bank account", "Money you owe someone"},
		CorrectIndex: 1, Reward: QuizReward, Explanation: "Life throws surprises! An emergency fund keeps you safe."},
	{ID: "q10", Difficulty: DifficultyKids, Question: "What's the difference between a NEED and a WANT?",
		Options:      []string{"Needs are always expensive", "Wants are things you must have", "Needs are essential, wants are nice-to-have", "There's no difference"},
		CorrectIndex: 2, Reward: QuizReward, Explanation: "Food & shelter = needs. Video games = wants. Know the difference!"},
	{ID: "q8", Difficulty: DifficultyKids, Question: "Why save before you spend?",
		Options:      []string{"Because saving is boring", "To have more money for toys later", "It builds a safety net and lets money grow", "You shouldn't, spend it all!"},
		CorrectIndex: 2, Reward: QuizReward, Explanation: "Pay yourself FIRST! Save, then spend what's left."},
	{ID: "q14", Difficulty: DifficultyKids, Question: "What happens if you only spend and never save?",
		Options:      []string{"You'll always be happy", "You'll have no money for emergencies or goals", "Nothing bad", "Your bank gives you more money"},
		CorrectIndex: 1, Reward: QuizReward, Explanation: "Without savings, one surprise expense can knock you down! Save first!"},

	{ID: "q1", Difficulty: DifficultyAllAges, Question: "What does 'passive income' mean?",
		Options:      []string{"Money earned without working every day", "Money from your job", "Money from the government", "Money you find on the street"},
		CorrectIndex: 0, Reward: QuizReward, Explanation: "Assets generate passive income: money while you sleep!"},
	{ID: "q2", Difficulty: DifficultyAllAges, Question: "Why is debt dangerous?",
		Options:      []string{"It makes you popular", "Interest makes you pay back MORE than you borrowed", "It doesn't matter", "Banks give you free money"},
		CorrectIndex: 1, Reward: QuizReward, Explanation: "Borrow $100, you might repay $110! That's interest!"},
	{ID: "q6", Difficulty: DifficultyAllAges, Question: "What does 'financial freedom' mean?",
		Options:      []string{"Having $1 million", "Never spending money", "Your investments pay all your bills", "Getting stuff for free"},
		CorrectIndex: 2, Reward: QuizReward, Explanation: "When passive income covers expenses, you're FREE to choose!"},
	{ID: "q7", Difficulty: DifficultyAllAges, Question: "What's a budget?",
		Options:      []string{"A type of calculator", "A plan for how to spend and save money", "A credit card limit", "The price of a product"},
		CorrectIndex: 1, Reward: QuizReward, Explanation: "A budget tells every dollar where to go!"},
	{ID: "q15", Difficulty: DifficultyAllAges, Question: "What's the best way to pay off debt?",
		Options:      []string{"Ignore it", "Borrow more money", "Pay as much as you can, as fast as you can", "Wait for someone else to pay it"},
		CorrectIndex: 2, Reward: QuizReward, Explanation: "The faster you pay debt, the less interest you owe! Speed matters!"},

	{ID: "q5", Difficulty: DifficultyTweens, Question: "Which grows faster over time?",
		Options:      []string{"Cash in a piggy bank", "Money invested that earns compound interest", "A pile of coins", "Stocks in a bad company"},
		CorrectIndex: 1, Reward: QuizReward, Explanation: "Compound interest is like a snowball: it grows faster and faster!"},
	{ID: "q9", Difficulty: DifficultyTweens, Question: "What is compound interest?",
		Options:      []string{"Interest on both your savings AND previous interest", "A type of bank fee", "Money the government takes", "Interest that decreases over time"},
		CorrectIndex: 0, Reward: QuizReward, Explanation: "Your interest earns interest! That's the magic of compounding!"},
	{ID: "q11", Difficulty: DifficultyTweens, Question: "What makes a business profitable?",
		Options:      []string{"Having a cool name", "Revenue is greater than costs", "Having many employees", "Spending lots on advertising"},
		CorrectIndex: 1, Reward: QuizReward, Explanation: "Profit = Revenue - Costs. Keep costs low and revenue high!"},
	{ID: "q12", Difficulty: DifficultyTweens, Question: "Why is insurance important?",
		Options:      []string{"It isn't important", "It protects you from big unexpected costs", "It makes you rich", "It's a way to avoid taxes"},
		CorrectIndex: 1, Reward: QuizReward, Explanation: "Insurance is a safety net: small payments now prevent big losses later!"},
	{ID: "q13", Difficulty: DifficultyTweens, Question: "What does 'diversify' mean in investing?",
		Options:      []string{"Put all your money in one business", "Stop investing entirely", "Spread money across different investments", "Only invest in what your friends invest in"},
		CorrectIndex: 2, Reward: QuizReward, Explanation: "Don't put all eggs in one basket! Spread your investments!"},
}

var defaultBots = []BotProfile{
	{ID: "bot-chloe", Name: "Careful Chloe", Avatar: "🐢", Personality: Conservative,
		Description: "Plays it safe: cash only, cheapest assets, always saves."},
	{ID: "bot-ben", Name: "Bold Ben", Avatar: "🦁", Personality: Aggressive,
		Description: "Go big or go home. Takes loans for the best businesses!"},
	{ID: "bot-sam", Name: "Smart Sam", Avatar: "🦉", Personality: Balanced,
		Description: "Calculates the best deals. Strategic and smart."},
}
