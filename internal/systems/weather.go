package systems

import (
	"fmt"
	"math"

	"warrior-server/internal/domain"
	"warrior-server/pkg/logger"
	"warrior-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

var seasonOrder = [...]Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}

func (s Season) next() Season {
	for i, v := range seasonOrder {
		if v == s {
			return seasonOrder[(i+1)%len(seasonOrder)]
		}
	}
	return SeasonSpring
}

type Weather string

const (
	WeatherClear  Weather = "clear"
	WeatherCloudy Weather = "cloudy"
	WeatherRain   Weather = "rain"
	WeatherStorm  Weather = "storm"
	WeatherSnow   Weather = "snow"
	WeatherFog    Weather = "fog"
)

type weatherOdds struct {
	weather Weather
	p       float64
}

// Вероятности погоды по сезонам, в сумме 1
var weatherTable = map[Season][]weatherOdds{
	SeasonSpring: {{WeatherClear, 0.45}, {WeatherCloudy, 0.25}, {WeatherRain, 0.25}, {WeatherFog, 0.05}},
	SeasonSummer: {{WeatherClear, 0.55}, {WeatherCloudy, 0.20}, {WeatherRain, 0.15}, {WeatherStorm, 0.10}},
	SeasonAutumn: {{WeatherClear, 0.35}, {WeatherCloudy, 0.30}, {WeatherRain, 0.25}, {WeatherFog, 0.10}},
	SeasonWinter: {{WeatherClear, 0.30}, {WeatherCloudy, 0.25}, {WeatherSnow, 0.35}, {WeatherFog, 0.10}},
}

var weatherBonuses = map[Weather]map[domain.Stat]float64{
	WeatherRain:  {domain.Technique: 1.30, domain.Speed: 1.20, domain.Strength: 1.10},
	WeatherStorm: {domain.Technique: 1.50, domain.KiControl: 1.40},
	WeatherSnow:  {domain.KiControl: 1.60, domain.Endurance: 1.10},
}

// WeatherState - сериализуемая часть модели для сейва
type WeatherState struct {
	GameTime float64 `json:"gameTime"`
	Day      int     `json:"day"`
	Season   Season  `json:"season"`
	Weather  Weather `json:"weather"`
}

// WeatherModel - игровые часы, сезоны и погода.
type WeatherModel struct {
	GameTime  float64
	Day       int
	Season    Season
	Weather   Weather
	WindSpeed int
	WindDir   int

	timer      float64
	nextChange float64

	rng utils.Roller
	log *logrus.Entry
}

func NewWeatherModel(rng utils.Roller) *WeatherModel {
	if rng == nil {
		rng = utils.NewRoller(1)
	}
	return &WeatherModel{
		GameTime:   domain.MorningStart,
		Day:        1,
		Season:     SeasonSpring,
		Weather:    WeatherClear,
		WindDir:    1,
		nextChange: domain.WeatherFirst,
		rng:        rng,
		log:        logger.For("weather"),
	}
}

// Update двигает часы (60 игровых секунд за реальную) и иногда меняет погоду.
func (w *WeatherModel) Update(dt float64) {
	if dt <= 0 {
		return
	}
	w.advance(domain.TimeSpeed * dt)

	w.timer += dt
	if w.timer >= w.nextChange {
		w.timer = 0
		w.nextChange = domain.WeatherMinWait + w.rng.Float64()*domain.WeatherSpread
		w.roll()
	}
}

// AdvanceHours проматывает время (сон, путешествие).
func (w *WeatherModel) AdvanceHours(hours float64) {
	w.advance(hours * 3600)
}

func (w *WeatherModel) advance(seconds float64) {
	w.GameTime += seconds
	for w.GameTime >= domain.DayLength {
		w.GameTime -= domain.DayLength
		w.Day++
		if w.Day%domain.DaysPerSeason == 0 {
			w.Season = w.Season.next()
			w.log.WithFields(logrus.Fields{"day": w.Day, "season": w.Season}).Info("Season changed")
		}
	}
}

func (w *WeatherModel) roll() {
	table, ok := weatherTable[w.Season]
	if !ok {
		table = weatherTable[SeasonSpring]
	}
	r := w.rng.Float64()
	var acc float64
	for _, o := range table {
		acc += o.p
		if r < acc {
			w.Weather = o.weather
			break
		}
	}

	w.WindSpeed = 0
	if utils.Chance(w.rng, 0.3) {
		w.WindSpeed = w.rng.Intn(3) + 1
	}
	w.WindDir = 1
	if utils.Chance(w.rng, 0.5) {
		w.WindDir = -1
	}
	w.log.WithFields(logrus.Fields{"weather": w.Weather, "wind": w.WindSpeed}).Debug("Weather rolled")
}

func (w *WeatherModel) IsDawn() bool {
	return w.GameTime >= domain.DawnStart && w.GameTime < domain.MorningStart
}

func (w *WeatherModel) IsDay() bool {
	return w.GameTime >= domain.MorningStart && w.GameTime < domain.EveningStart
}

func (w *WeatherModel) IsDusk() bool {
	return w.GameTime >= domain.EveningStart && w.GameTime < domain.NightStart
}

func (w *WeatherModel) IsNight() bool {
	return w.GameTime >= domain.NightStart || w.GameTime < domain.DawnStart
}

func (w *WeatherModel) isNoon() bool {
	return w.GameTime >= domain.NoonStart && w.GameTime < domain.NoonEnd
}

// TimeMultiplier - бонус времени суток ко всем тренировкам
func (w *WeatherModel) TimeMultiplier() float64 {
	m := 1.0
	if w.IsDawn() {
		m *= domain.DawnMultiplier
	}
	if w.isNoon() {
		m *= domain.NoonMultiplier
	}
	if w.IsNight() {
		m *= domain.NightMultiplier
	}
	return m
}

// WeatherBonus - множитель погоды для одной характеристики
func (w *WeatherModel) WeatherBonus(stat domain.Stat) float64 {
	if v, ok := weatherBonuses[w.Weather][stat]; ok {
		return v
	}
	return 1
}

// TrainingMultiplier - погода и время вместе
func (w *WeatherModel) TrainingMultiplier(stat domain.Stat) float64 {
	return w.WeatherBonus(stat) * w.TimeMultiplier()
}

// Conditions собирает условия тренировки в текущей зоне.
func (w *WeatherModel) Conditions(location float64) TrainingConditions {
	c := TrainingConditions{Time: w.TimeMultiplier(), Location: location}
	for _, s := range domain.AllStats {
		c.Weather[s] = w.WeatherBonus(s)
	}
	return c
}

// TimeLabel - "7:00 AM"
func (w *WeatherModel) TimeLabel() string {
	h := int(math.Floor(w.GameTime/3600)) % 24
	m := int(math.Floor(math.Mod(w.GameTime, 3600) / 60))
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, ampm)
}

func (w *WeatherModel) State() WeatherState {
	return WeatherState{GameTime: w.GameTime, Day: w.Day, Season: w.Season, Weather: w.Weather}
}

// Restore загружает состояние из сейва. Пустые поля не трогаем.
func (w *WeatherModel) Restore(s WeatherState) {
	w.GameTime = math.Mod(math.Max(0, s.GameTime), domain.DayLength)
	if s.Day > 0 {
		w.Day = s.Day
	}
	if _, ok := weatherTable[s.Season]; ok {
		w.Season = s.Season
	}
	if s.Weather != "" {
		w.Weather = s.Weather
	}
	w.timer = 0
}
