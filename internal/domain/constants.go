package domain

// Характеристики персонажа
const (
	StatCap          = 50.0
	PowerLevelBase   = 3
	HPBase           = 100.0
	StaminaBase      = 100.0
	HPPerEndurance   = 10.0
	StaminaPerEnd    = 8.0
	KiPerKiControl   = 20.0
	DiminishingRate  = 0.02
	InjuryPenaltyMax = 0.8

	HonorStart  = 50.0
	HonorMax    = 100.0
	MeterMax    = 50.0 // determination и wisdom
	HungerMax   = 100.0
	HungerStart = 70.0
)

// Боевые константы
const (
	CritChancePerTechnique = 0.015
	CritMultiplier         = 1.8
	CritFlash              = 0.08
	CritSlowMotion         = 0.15
	ComboSlowMotion        = 0.1
	ComboDecay             = 1.0
	ComboSlowMotionTier    = 3

	ChipDamage         = 0.10
	DefaultGuardDamage = 20.0
	GuardMax           = 100.0
	GuardRegen         = 15.0 // в секунду, пока не блокирует
	GuardBreakStun     = 2.0

	ParryStun      = 1.0
	ParryKnockback = 300.0

	DefaultHitStun   = 0.2
	KnockbackScale   = 200.0
	KnockbackLift    = -100.0
	LaunchVelocity   = -400.0
	LaunchPush       = 150.0
	MultiHitStagger  = 0.08
	SlowMotionFactor = 0.3

	KiSlowMotionStrong = 0.3
	KiSlowMotionWeak   = 0.15
	KiStrongCharge     = 3.0

	// Нокдаун при нокауте держится до конца боя.
	// Не используем +Inf: снапшоты уходят в JSON.
	PermanentDuration = 1e9
)

// Действия игрока в бою
const (
	ParryWindow       = 0.12
	BlockCost         = 3.0 // в секунду
	BlockMinStamina   = 5.0
	DodgeCost         = 15.0
	DodgeInvulnerable = 0.3
	DodgeCooldown     = 0.6
	DodgeSpeed        = 320.0

	StaminaLight  = 8.0
	StaminaMedium = 15.0
	StaminaHeavy  = 30.0

	StaminaRegenIdle  = 20.0
	StaminaRegenMove  = 5.0
	StaminaRegenBlock = 0.0
	KiRegenPerControl = 0.3

	KiBlastCost     = 10.0
	KiBlastDamage   = 0.12
	KiBlastSpeed    = 480.0
	KiBlastLifetime = 2.0
	BeamSpeed       = 800.0
	BeamLifetime    = 1.5
	BeamMinCharge   = 0.5
	ProjectileStun  = 0.4

	SecondWindThreshold = 0.20
	SecondWindHeal      = 0.30
	BeamAttackTime      = 0.6
	AttackRecovery      = 0.1
	DodgeLift           = -80.0
	CombatJumpScale     = 0.75
	MoveSpeedPerStat    = 2.0
	MovingThreshold     = 5.0

	// TechniqueKiWave открывает выпуск заряженного луча
	TechniqueKiWave = "ki_wave"
)

// Физика арены
const (
	Gravity        = 1200.0
	GroundY        = 400.0
	ArenaMinX      = 60.0
	ArenaMaxX      = 900.0
	JumpForce      = -520.0
	WalkSpeed      = 140.0
	PlayerFriction = 0.80
	EnemyFriction  = 0.85
	CombatantWidth = 48.0
	PlayerHeight   = 64.0
	EnemyHeight    = 80.0
)

// Поведение врагов
const (
	MeleeRange         = 80.0
	DisengageRange     = 160.0
	RangeUnit          = 60.0
	ApproachSpeedScale = 0.6
	SpeedPerStat       = 8.0
	AttackCooldownBase = 1.5
	AttackCooldownCut  = 0.03
	AttackCooldownMax  = 0.8
	PostAttackReact    = 0.3
	StunGrace          = 1.0
	DodgeChance        = 0.02
	DodgeDuration      = 0.3
	DodgePush          = 300.0
	StaggerDamping     = 0.8

	EnemySpawnX     = 672.0 // 70% ширины арены
	PackSpacing     = 80.0
	AdjustPLRatio   = 1.5
	EnemyStamina    = 100.0
	DefaultPackSize = 2
)

// Тренировки
const (
	LowStaminaInjuryRisk   = 0.20
	LowStaminaThreshold    = 30.0
	CriticalStamina        = 15.0
	CriticalStaminaRisk    = 0.30
	MinStaminaFraction     = 0.3
	SevereInjuryStamina    = 60.0
	FlowMultiplier         = 2.0
	FlowQuality            = 95.0
	RestHealFraction       = 0.25
	RestHours              = 8
	TrainingQualityBase    = 50.0
	TrainingQualitySpread  = 30.0
	ProficiencyGainPerTick = 1.0
)

// Голод
const (
	HungerDrainIdle   = 0.3
	HungerDrainTrain  = 0.8
	HungerDrainCombat = 1.2

	HungerWellFed  = 80.0
	HungerNormal   = 50.0
	HungerHungry   = 30.0
	HungerStarving = 10.0
	HungerCritical = 0.0

	StarvationDamage = 5.0 // HP в секунду

	WellFedStatBonus   = 1.0
	WellFedTrainBonus  = 10.0 // проценты
	HungryPenaltyScale = 0.05
	HungrySeverity     = 10.0
	StarvingSeverity   = 30.0

	SickDuration   = 7200.0
	SickPenalty    = 0.2
	PoisonDuration = 10.0
	PoisonTick     = 3.0
)

// Время суток и погода. Время игровое, в секундах от полуночи.
const (
	TimeSpeed      = 60.0
	DayLength      = 86400.0
	DawnStart      = 5 * 3600.0
	MorningStart   = 7 * 3600.0
	NoonStart      = 11 * 3600.0
	NoonEnd        = 14 * 3600.0
	EveningStart   = 18 * 3600.0
	NightStart     = 20 * 3600.0
	DaysPerSeason  = 30
	WeatherFirst   = 120.0
	WeatherMinWait = 60.0
	WeatherSpread  = 180.0

	DawnMultiplier  = 1.10
	NoonMultiplier  = 1.15
	NightMultiplier = 1.40
)

// Пороги сюжета
var ActPowerLevels = [...]int{15, 40, 80}

// Пороги комбо и множители к ним
var (
	ComboThresholds  = [...]int{3, 6, 10, 15, 20, 26}
	ComboMultipliers = [...]float64{1.2, 1.5, 1.75, 2.0, 2.5, 3.0}
)

// Пороги опыта и множители мастерства по уровням 0..10
var (
	ProficiencyThresholds  = [...]float64{0, 10, 25, 50, 85, 130, 185, 250, 325, 410, 500}
	ProficiencyMultipliers = [...]float64{1, 1, 1, 1.5, 1.5, 2, 2, 2.5, 2.5, 3, 3}
)
