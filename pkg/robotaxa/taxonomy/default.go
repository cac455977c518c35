package taxonomy

// DefaultVersion identifies the embedded scheme.
const DefaultVersion = "tol-2.0"

// Level names of the embedded scheme, in rank order.
const (
	LevelDomain  = "Domain"
	LevelKingdom = "Kingdom"
	LevelPhylum  = "Phylum"
	LevelClass   = "Class"
	LevelOrder   = "Order"
	LevelFamily  = "Family"
	LevelGenus   = "Genus"
	LevelSpecies = "Species"
)

// Default returns the embedded eight-level scheme. It always builds; the
// curated levels are validated by tests.
func Default() *Definition {
	def, err := New(DefaultVersion, DefaultLevels())
	if err != nil {
		panic("taxonomy: embedded default is invalid: " + err.Error())
	}
	return def
}

// DefaultLevels returns a fresh copy of the embedded levels, usable as a
// starting point for customized schemes.
func DefaultLevels() []Level {
	return []Level{
		{
			Name:    LevelDomain,
			Default: "Physical",
			Categories: []Category{
				{Name: "Physical", Description: "Embodied machines acting in the physical world", Keywords: []string{"physical", "mechanical", "hardware", "embodied"}},
				{Name: "Virtual", Description: "Software agents without a physical body", Keywords: []string{"virtual", "software agent", "simulated", "simulation", "chatbot", "digital twin"}},
				{Name: "Hybrid", Description: "Systems spanning physical and virtual operation", Keywords: []string{"hybrid", "telepresence", "cyber-physical", "mixed reality"}},
			},
		},
		{
			Name:    LevelKingdom,
			Default: "Service",
			Categories: []Category{
				{Name: "Industrial", Description: "Manufacturing and production environments", Keywords: []string{"industrial", "manufacturing", "factory", "assembly", "welding", "painting"}},
				{Name: "Medical", Description: "Clinical, surgical and care settings", Keywords: []string{"medical", "surgery", "surgical", "hospital", "rehabilitation", "healthcare"}},
				{Name: "Service", Description: "Domestic and commercial service work", Keywords: []string{"service", "domestic", "cleaning", "delivery", "hospitality", "household"}},
				{Name: "Military", Description: "Defense and security operations", Keywords: []string{"military", "defense", "combat", "tactical", "bomb disposal"}},
				{Name: "Agriculture", Description: "Farming, crops and livestock", Keywords: []string{"agriculture", "agricultural", "farming", "harvest", "crop", "livestock"}},
				{Name: "Space", Description: "Orbital and planetary missions", Keywords: []string{"space", "orbital", "planetary", "spacecraft", "satellite", "rover"}},
				{Name: "Marine", Description: "Ocean, offshore and subsea work", Keywords: []string{"marine", "ocean", "offshore", "subsea", "underwater"}},
				{Name: "Research", Description: "Laboratory and academic platforms", Keywords: []string{"research", "laboratory", "academic", "experiment", "prototype"}},
				{Name: "Entertainment", Description: "Toys, shows and amusement", Keywords: []string{"entertainment", "toy", "theme park", "amusement"}},
			},
		},
		{
			Name:    LevelPhylum,
			Default: "Mobile",
			Categories: []Category{
				{Name: "Stationary", Description: "Fixed in place, typically mounted or bolted down", Keywords: []string{"stationary", "fixed", "mounted", "bolted", "bench"}},
				{Name: "Mobile", Description: "Moves through its environment", Keywords: []string{"mobile", "navigate", "wheel", "track", "leg", "biped", "quadruped", "walk", "fly", "drone", "aerial", "swim", "underwater", "rover"}},
			},
			Branch: &BranchRule{
				Parent: "Mobile",
				Score:  0.7,
				Rules: []BranchPredicate{
					{Keywords: []string{"wheel", "drive", "track", "rolling"}, Label: "Mobile.Wheeled"},
					{Keywords: []string{"leg", "biped", "quadruped", "walk", "hexapod"}, Label: "Mobile.Legged"},
					{Keywords: []string{"fly", "drone", "aerial", "helicopter", "quadcopter"}, Label: "Mobile.Flying"},
					{Keywords: []string{"swim", "underwater", "submarine", "subsea"}, Label: "Mobile.Swimming"},
				},
			},
		},
		{
			Name:    LevelClass,
			Default: "Rule-Based",
			Categories: []Category{
				{Name: "Rule-Based", Description: "Scripted, preprogrammed control", Keywords: []string{"rule-based", "scripted", "preprogrammed", "deterministic"}},
				{Name: "Model-Based", Description: "Explicit models of the world or plant", Keywords: []string{"model-based", "model predictive", "kalman", "slam"}},
				{Name: "AI-Powered", Description: "Learned perception or control", Keywords: []string{"machine learning", "neural", "deep learning", "intelligent", "computer vision"}},
				{Name: "Adaptive-Learning", Description: "Adapts online to its environment", Keywords: []string{"adaptive", "self-learning", "online learning", "continual learning"}},
				{Name: "Reinforcement-Learning", Description: "Trained by reward signals", Keywords: []string{"reinforcement", "q-learning", "reward-driven"}},
				{Name: "Generative", Description: "Driven by generative or language models", Keywords: []string{"generative", "language model", "foundation model", "llm"}},
			},
		},
		{
			Name:    LevelOrder,
			Default: "Semi-Autonomous",
			Categories: []Category{
				{Name: "Manual", Description: "Directly operated by hand", Keywords: []string{"manual", "hand-operated", "hand-guided"}},
				{Name: "Teleoperated", Description: "Driven remotely by an operator", Keywords: []string{"teleoperated", "remote control", "remote-controlled", "remotely operated", "joystick"}},
				{Name: "Semi-Autonomous", Description: "Automated with human supervision", Keywords: []string{"semi-autonomous", "semi autonomous", "assisted", "supervised"}},
				{Name: "Autonomous", Description: "Operates without human intervention", Keywords: []string{"autonomous", "self-driving", "unmanned", "self-navigating"}},
				{Name: "Collaborative", Description: "Shares a workspace with people", Keywords: []string{"collaborative", "cobot", "human-robot collaboration"}},
				{Name: "Swarm-Based", Description: "Coordinated multi-unit behavior", Keywords: []string{"swarm", "multi-robot", "fleet"}},
			},
		},
		{
			Name:    LevelFamily,
			Default: "Minimal-Sensing",
			Categories: []Category{
				{Name: "Vision-Based", Description: "Primary sensing by cameras", Keywords: []string{"camera", "vision", "visual", "stereo", "optical"}},
				{Name: "LiDAR-Based", Description: "Laser range sensing", Keywords: []string{"lidar", "laser scanner", "point cloud"}},
				{Name: "Tactile-Based", Description: "Touch and force sensing", Keywords: []string{"tactile", "touch sensor", "force sensor", "haptic", "force-torque"}},
				{Name: "GPS-Based", Description: "Satellite positioning", Keywords: []string{"gps", "gnss", "satellite navigation", "geolocation"}},
				{Name: "Acoustic-Based", Description: "Sound and ultrasound sensing", Keywords: []string{"sonar", "acoustic", "ultrasonic", "microphone", "hydrophone"}},
				{Name: "Chemical-Based", Description: "Gas and chemical detection", Keywords: []string{"chemical detection", "gas sensor", "spectrometer"}},
				{Name: "Multimodal", Description: "Fused sensing across modalities", Keywords: []string{"multimodal", "sensor fusion", "multi-sensor"}},
				{Name: "Minimal-Sensing", Description: "Little or no exteroception", Keywords: []string{"open-loop", "sensorless", "minimal sensing"}},
			},
		},
		{
			Name:    LevelGenus,
			Default: "Electric",
			Categories: []Category{
				{Name: "Electric", Description: "Electric motor actuation", Keywords: []string{"electric", "servo", "brushless", "stepper", "motor"}},
				{Name: "Hydraulic", Description: "Pressurized fluid actuation", Keywords: []string{"hydraulic"}},
				{Name: "Pneumatic", Description: "Compressed air actuation", Keywords: []string{"pneumatic", "air-driven", "suction"}},
				{Name: "Smart-Material", Description: "Shape memory and piezo actuators", Keywords: []string{"shape memory", "piezoelectric", "smart material", "electroactive"}},
				{Name: "Bio-Hybrid", Description: "Living tissue actuation", Keywords: []string{"bio-hybrid", "biohybrid", "muscle cell", "organic tissue"}},
				{Name: "Magnetic", Description: "Magnetic field actuation", Keywords: []string{"magnet", "electromagnetic actuation", "maglev"}},
				{Name: "Passive", Description: "Unpowered or gravity-driven mechanisms", Keywords: []string{"passive", "unpowered", "gravity-driven", "unactuated"}},
			},
		},
		{
			Name:    LevelSpecies,
			Default: "Inspection",
			Categories: []Category{
				{Name: "Assembly", Description: "Joining parts into products", Keywords: []string{"assembly", "assembling", "pick and place", "pick-and-place"}},
				{Name: "Surgery", Description: "Operating on patients", Keywords: []string{"surgery", "surgical"}},
				{Name: "Inspection", Description: "Examining structures and products", Keywords: []string{"inspection", "inspecting", "quality control", "defect"}},
				{Name: "Transport", Description: "Moving goods and materials", Keywords: []string{"transport", "logistics", "delivery", "hauling", "towing"}},
				{Name: "Exploration", Description: "Entering unknown environments", Keywords: []string{"exploration", "explore", "expedition"}},
				{Name: "Surveillance", Description: "Watching areas and assets", Keywords: []string{"surveillance", "patrol", "monitoring", "reconnaissance"}},
				{Name: "Companionship", Description: "Social and emotional support", Keywords: []string{"companion", "social interaction", "elderly care", "emotional support"}},
				{Name: "Education", Description: "Teaching and training", Keywords: []string{"education", "educational", "teaching", "tutoring"}},
				{Name: "Mapping", Description: "Building maps and surveys", Keywords: []string{"mapping", "cartography", "survey"}},
				{Name: "Rescue", Description: "Disaster and emergency response", Keywords: []string{"rescue", "search and rescue", "disaster response", "firefighting"}},
				{Name: "Entertainment", Description: "Performing and amusing", Keywords: []string{"entertainment", "performing", "amusement", "dancing"}},
				{Name: "Agricultural-Task", Description: "Field and livestock work", Keywords: []string{"harvesting", "weeding", "seeding", "spraying", "milking"}},
				{Name: "Construction", Description: "Building and demolition", Keywords: []string{"construction", "bricklaying", "demolition", "excavation"}},
				{Name: "Maintenance", Description: "Repair and upkeep", Keywords: []string{"maintenance", "repair", "servicing"}},
				{Name: "Environmental-Monitoring", Description: "Tracking environmental conditions", Keywords: []string{"environmental monitoring", "water quality", "air quality", "pollution"}},
			},
		},
	}
}
