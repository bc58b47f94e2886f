package exercise

// Muscle-group tags used by the core catalog.
const (
	GroupChest     = "chest"
	GroupBack      = "back"
	GroupLegs      = "legs"
	GroupShoulders = "shoulders"
	GroupArms      = "arms"
	GroupCore      = "core"
	GroupFullBody  = "full_body"
)

// catalog is the built-in exercise list, grouped by body part. Order matters:
// fuzzy ties are broken by catalog position.
var catalog = []struct {
	group     string
	exercises []Definition
}{
	{GroupChest, []Definition{
		{Name: "Bench Press", Aliases: []string{"bench", "flat bench", "barbell bench press", "flat bench press"}},
		{Name: "Incline Bench Press", Aliases: []string{"incline bench", "incline press"}},
		{Name: "Decline Bench Press", Aliases: []string{"decline bench", "decline press"}},
		{Name: "Dumbbell Bench Press", Aliases: []string{"db bench", "dumbbell bench", "dumbbell press"}},
		{Name: "Incline Dumbbell Press", Aliases: []string{"incline db press", "incline dumbbell bench"}},
		{Name: "Chest Fly", Aliases: []string{"fly", "dumbbell fly", "pec fly", "pec deck"}},
		{Name: "Cable Crossover", Aliases: []string{"cable fly", "crossover"}},
		{Name: "Push Up", Aliases: []string{"pushup", "press up"}, Bodyweight: true},
		{Name: "Dip", Aliases: []string{"chest dip", "parallel bar dip"}, Bodyweight: true},
	}},
	{GroupBack, []Definition{
		{Name: "Deadlift", Aliases: []string{"conventional deadlift", "barbell deadlift"}},
		{Name: "Romanian Deadlift", Aliases: []string{"rdl", "stiff leg deadlift"}},
		{Name: "Barbell Row", Aliases: []string{"bent over row", "bb row", "row"}},
		{Name: "Dumbbell Row", Aliases: []string{"db row", "one arm row", "single arm row"}},
		{Name: "Lat Pulldown", Aliases: []string{"pulldown", "lat pull down"}},
		{Name: "Seated Cable Row", Aliases: []string{"cable row", "seated row"}},
		{Name: "T-Bar Row", Aliases: []string{"t bar row", "tbar row"}},
		{Name: "Pull Up", Aliases: []string{"pullup", "pull up"}, Bodyweight: true},
		{Name: "Chin Up", Aliases: []string{"chinup", "chin up"}, Bodyweight: true},
		{Name: "Back Extension", Aliases: []string{"hyperextension", "back raise"}, Bodyweight: true},
		{Name: "Shrug", Aliases: []string{"barbell shrug", "dumbbell shrug"}},
		{Name: "Face Pull", Aliases: []string{"rope face pull"}},
	}},
	{GroupLegs, []Definition{
		{Name: "Squat", Aliases: []string{"back squat", "barbell squat"}},
		{Name: "Front Squat", Aliases: []string{"front squat"}},
		{Name: "Goblet Squat", Aliases: []string{"goblet"}},
		{Name: "Leg Press", Aliases: []string{"sled press"}},
		{Name: "Lunge", Aliases: []string{"walking lunge", "dumbbell lunge"}},
		{Name: "Bulgarian Split Squat", Aliases: []string{"split squat", "bulgarian"}},
		{Name: "Leg Extension", Aliases: []string{"quad extension"}},
		{Name: "Leg Curl", Aliases: []string{"hamstring curl", "lying leg curl"}},
		{Name: "Hip Thrust", Aliases: []string{"barbell hip thrust", "glute bridge"}},
		{Name: "Calf Raise", Aliases: []string{"standing calf raise", "calves"}},
		{Name: "Bodyweight Squat", Aliases: []string{"air squat"}, Bodyweight: true},
	}},
	{GroupShoulders, []Definition{
		{Name: "Overhead Press", Aliases: []string{"ohp", "military press", "shoulder press", "standing press"}},
		{Name: "Dumbbell Shoulder Press", Aliases: []string{"db shoulder press", "seated dumbbell press"}},
		{Name: "Arnold Press", Aliases: []string{"arnold"}},
		{Name: "Lateral Raise", Aliases: []string{"side raise", "lat raise", "side lateral raise"}},
		{Name: "Front Raise", Aliases: []string{"dumbbell front raise"}},
		{Name: "Rear Delt Fly", Aliases: []string{"reverse fly", "rear delt"}},
		{Name: "Upright Row", Aliases: []string{"barbell upright row"}},
	}},
	{GroupArms, []Definition{
		{Name: "Barbell Curl", Aliases: []string{"curl", "bicep curl", "biceps curl"}},
		{Name: "Dumbbell Curl", Aliases: []string{"db curl", "dumbbell bicep curl"}},
		{Name: "Hammer Curl", Aliases: []string{"hammer"}},
		{Name: "Preacher Curl", Aliases: []string{"preacher"}},
		{Name: "Tricep Pushdown", Aliases: []string{"pushdown", "triceps pushdown", "rope pushdown"}},
		{Name: "Skull Crusher", Aliases: []string{"skullcrusher", "lying tricep extension"}},
		{Name: "Overhead Tricep Extension", Aliases: []string{"tricep extension", "overhead extension"}},
		{Name: "Close Grip Bench Press", Aliases: []string{"close grip bench", "cgbp"}},
	}},
	{GroupCore, []Definition{
		{Name: "Plank", Aliases: []string{"front plank"}, Bodyweight: true},
		{Name: "Crunch", Aliases: []string{"ab crunch"}, Bodyweight: true},
		{Name: "Sit Up", Aliases: []string{"situp", "sit up"}, Bodyweight: true},
		{Name: "Hanging Leg Raise", Aliases: []string{"leg raise", "hanging knee raise"}, Bodyweight: true},
		{Name: "Russian Twist", Aliases: []string{"twist"}},
		{Name: "Cable Crunch", Aliases: []string{"kneeling cable crunch"}},
		{Name: "Ab Wheel", Aliases: []string{"ab rollout", "rollout"}, Bodyweight: true},
	}},
	{GroupFullBody, []Definition{
		{Name: "Kettlebell Swing", Aliases: []string{"kb swing", "swing"}},
		{Name: "Clean and Press", Aliases: []string{"clean press"}},
		{Name: "Power Clean", Aliases: []string{"clean"}},
		{Name: "Burpee", Aliases: []string{"burpees"}, Bodyweight: true},
		{Name: "Farmer's Walk", Aliases: []string{"farmers walk", "farmer carry"}},
	}},
}

// Core returns a fresh copy of the built-in catalog in catalog order, with
// Group and Origin filled in.
func Core() []Definition {
	var out []Definition
	for _, g := range catalog {
		for _, d := range g.exercises {
			d.Group = g.group
			d.Origin = OriginCore
			d.Aliases = append([]string(nil), d.Aliases...)
			out = append(out, d)
		}
	}
	return out
}
