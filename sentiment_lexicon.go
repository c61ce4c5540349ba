package ytsentiment

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// AffectLexicon maps words to dimensional affect norms on a 1-9 scale.
type AffectLexicon struct {
	words map[string]AffectEntry
	mutex sync.RWMutex
}

// AffectEntry represents a word's affect norms.
type AffectEntry struct {
	Word      string
	Valence   float64
	Arousal   float64
	Dominance float64
}

// ExternalAffectLexicon is the JSON structure of an external lexicon file.
type ExternalAffectLexicon struct {
	Words []AffectWordEntry `json:"words"`
}

// AffectWordEntry represents one word in an external lexicon file.
type AffectWordEntry struct {
	Word      string  `json:"word"`
	Valence   float64 `json:"valence"`
	Arousal   float64 `json:"arousal"`
	Dominance float64 `json:"dominance"`
}

// LoadAffectLexicon returns the built-in English affect lexicon.
func LoadAffectLexicon() *AffectLexicon {
	al := &AffectLexicon{words: make(map[string]AffectEntry, len(baseAffectNorms))}
	for word, n := range baseAffectNorms {
		al.words[word] = AffectEntry{Word: word, Valence: n[0], Arousal: n[1], Dominance: n[2]}
	}
	return al
}

// LoadAffectLexiconWithExternal returns the built-in lexicon merged with the
// entries of an external JSON file. An empty path skips the external file.
func LoadAffectLexiconWithExternal(externalPath string) (*AffectLexicon, error) {
	al := LoadAffectLexicon()
	if externalPath == "" {
		return al, nil
	}
	if err := al.LoadExternalLexicon(externalPath); err != nil {
		return nil, err
	}
	return al, nil
}

// LoadExternalLexicon merges entries from a JSON file into the lexicon.
// Entries outside the 1-9 scale are rejected.
func (al *AffectLexicon) LoadExternalLexicon(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to read affect lexicon file %s: %w", filepath, err)
	}

	var external ExternalAffectLexicon
	if err := json.Unmarshal(data, &external); err != nil {
		return fmt.Errorf("failed to parse affect lexicon JSON: %w", err)
	}

	al.mutex.Lock()
	defer al.mutex.Unlock()

	for _, entry := range external.Words {
		word := strings.ToLower(strings.TrimSpace(entry.Word))
		if word == "" {
			continue
		}
		for _, v := range []float64{entry.Valence, entry.Arousal, entry.Dominance} {
			if v < 1 || v > 9 {
				return fmt.Errorf("affect lexicon entry %q: norm %.2f outside [1, 9]", entry.Word, v)
			}
		}
		al.words[word] = AffectEntry{
			Word:      word,
			Valence:   entry.Valence,
			Arousal:   entry.Arousal,
			Dominance: entry.Dominance,
		}
	}
	return nil
}

// Lookup returns the norms of a word.
func (al *AffectLexicon) Lookup(word string) (AffectEntry, bool) {
	al.mutex.RLock()
	defer al.mutex.RUnlock()

	entry, exists := al.words[word]
	if !exists {
		entry, exists = al.words[strings.ToLower(word)]
	}
	return entry, exists
}

// AddCustomWord allows adding domain-specific words.
func (al *AffectLexicon) AddCustomWord(word string, valence, arousal, dominance float64) {
	al.mutex.Lock()
	defer al.mutex.Unlock()

	al.words[word] = AffectEntry{Word: word, Valence: valence, Arousal: arousal, Dominance: dominance}
}

// Size returns the number of words in the lexicon.
func (al *AffectLexicon) Size() int {
	al.mutex.RLock()
	defer al.mutex.RUnlock()

	return len(al.words)
}

// baseAffectNorms holds {valence, arousal, dominance} for common English
// words, after the ANEW norms.
var baseAffectNorms = map[string][3]float64{
	// Strong positive
	"love":        {8.72, 6.44, 7.11},
	"loved":       {8.64, 6.38, 6.90},
	"happy":       {8.21, 6.49, 6.63},
	"happiness":   {8.48, 6.04, 7.18},
	"joy":         {8.60, 7.22, 6.28},
	"laughter":    {8.45, 6.75, 7.03},
	"fun":         {8.37, 7.22, 6.80},
	"beautiful":   {7.60, 6.17, 6.29},
	"wonderful":   {8.05, 6.31, 6.74},
	"awesome":     {8.10, 6.80, 6.90},
	"amazing":     {8.20, 6.90, 6.80},
	"excellent":   {8.38, 5.54, 7.06},
	"fantastic":   {8.36, 6.82, 6.80},
	"perfect":     {8.28, 5.27, 7.00},
	"brilliant":   {7.80, 5.80, 7.07},
	"best":        {8.00, 5.90, 7.20},
	"great":       {7.90, 5.80, 6.90},
	"friend":      {7.74, 5.74, 6.74},
	"friendly":    {8.43, 5.11, 6.84},
	"kiss":        {8.26, 7.32, 6.38},
	"hug":         {8.00, 5.35, 6.11},
	"music":       {8.13, 5.32, 6.39},
	"song":        {7.10, 6.07, 6.11},
	"melody":      {7.07, 4.98, 6.09},
	"sunshine":    {8.10, 5.04, 6.19},
	"paradise":    {8.72, 5.12, 6.22},
	"treasure":    {8.27, 6.75, 6.49},
	"victory":     {8.32, 6.63, 7.26},
	"win":         {8.38, 7.72, 7.39},
	"winner":      {8.53, 7.86, 7.28},
	"success":     {8.29, 6.11, 7.23},
	"gift":        {7.77, 6.14, 6.19},
	"heaven":      {7.30, 5.61, 5.82},
	"hope":        {7.05, 5.44, 5.78},
	"proud":       {8.03, 5.56, 7.30},
	"cute":        {7.62, 5.53, 6.17},
	"sweet":       {7.62, 5.00, 6.14},
	"talent":      {7.56, 6.27, 7.21},
	"talented":    {7.60, 6.10, 7.00},
	"genius":      {7.69, 5.87, 6.93},
	"masterpiece": {8.20, 6.10, 6.80},
	"thanks":      {7.40, 4.50, 6.40},
	"thank":       {7.40, 4.50, 6.40},
	"enjoy":       {7.66, 5.20, 6.60},
	"enjoyed":     {7.60, 5.20, 6.50},
	"nice":        {7.38, 4.38, 6.20},
	"good":        {7.47, 5.43, 6.41},
	"pretty":      {7.75, 6.03, 6.20},
	"cool":        {6.82, 3.43, 6.22},
	"funny":       {7.50, 6.20, 6.40},
	"interesting": {6.90, 5.50, 6.30},
	"favorite":    {7.40, 5.10, 6.30},
	"peace":       {7.72, 2.95, 5.73},
	"relaxed":     {7.00, 2.39, 6.64},
	"calm":        {6.89, 1.67, 6.00},
	"free":        {8.00, 5.15, 7.00},
	"baby":        {8.22, 5.53, 5.00},
	"smile":       {8.21, 5.73, 7.01},
	"party":       {7.86, 6.69, 6.26},
	"holiday":     {7.55, 6.59, 6.30},
	"dance":       {7.99, 6.29, 6.50},

	// Neutral
	"video":   {6.10, 4.80, 5.80},
	"watch":   {5.60, 4.10, 5.50},
	"people":  {7.33, 5.94, 5.84},
	"time":    {5.31, 4.64, 4.63},
	"year":    {5.90, 4.20, 5.40},
	"world":   {6.50, 5.32, 5.43},
	"thing":   {5.00, 3.50, 5.20},
	"man":     {6.73, 5.24, 5.53},
	"woman":   {6.64, 5.32, 5.80},
	"guitar":  {6.40, 4.90, 5.90},
	"drummer": {6.20, 5.30, 5.70},
	"table":   {5.22, 2.92, 5.66},
	"chair":   {5.08, 3.15, 5.22},
	"street":  {5.22, 3.39, 5.10},
	"phone":   {6.10, 4.30, 5.90},
	"news":    {5.30, 5.17, 5.10},
	"book":    {5.72, 4.17, 5.60},
	"car":     {7.73, 6.24, 6.89},
	"house":   {7.26, 4.56, 6.08},
	"channel": {5.80, 4.40, 5.60},
	"comment": {5.40, 4.30, 5.50},
	"okay":    {6.10, 3.60, 5.80},
	"normal":  {5.40, 2.93, 5.70},
	"average": {5.10, 2.80, 5.30},

	// Negative
	"hate":          {2.12, 6.95, 5.05},
	"hated":         {2.10, 6.80, 4.90},
	"sad":           {1.61, 4.13, 3.45},
	"sadness":       {1.61, 4.13, 3.49},
	"angry":         {2.85, 7.17, 5.55},
	"anger":         {2.34, 7.63, 5.50},
	"terrible":      {1.93, 6.27, 3.80},
	"horrible":      {2.76, 6.36, 4.00},
	"awful":         {2.10, 5.90, 4.00},
	"bad":           {3.24, 4.81, 4.24},
	"worst":         {1.90, 6.10, 3.80},
	"boring":        {2.95, 2.39, 4.65},
	"stupid":        {2.31, 4.72, 4.50},
	"ugly":          {2.43, 5.38, 4.30},
	"disgusting":    {2.45, 5.90, 4.20},
	"disgusted":     {2.45, 5.42, 4.34},
	"pain":          {2.13, 6.50, 3.71},
	"hurt":          {1.90, 5.85, 3.33},
	"cry":           {3.04, 5.53, 4.05},
	"crying":        {3.00, 5.40, 4.00},
	"death":         {1.61, 4.59, 3.47},
	"dead":          {1.94, 5.73, 2.84},
	"kill":          {1.56, 7.86, 5.00},
	"killer":        {1.89, 7.86, 3.92},
	"war":           {2.08, 7.49, 4.50},
	"fear":          {2.76, 6.96, 3.22},
	"afraid":        {2.00, 6.67, 3.98},
	"scared":        {2.78, 6.82, 3.98},
	"lonely":        {2.17, 4.51, 2.95},
	"failure":       {1.70, 4.95, 2.81},
	"fail":          {2.20, 5.20, 3.40},
	"loser":         {2.25, 4.95, 3.02},
	"trash":         {2.67, 4.16, 4.96},
	"garbage":       {2.98, 5.04, 4.70},
	"waste":         {2.93, 4.14, 4.80},
	"annoying":      {2.90, 5.80, 4.20},
	"annoyed":       {2.80, 5.70, 4.30},
	"disappointed":  {2.39, 5.00, 3.50},
	"disappointing": {2.50, 4.90, 3.60},
	"poor":          {2.45, 4.50, 3.20},
	"sick":          {1.90, 4.29, 3.29},
	"lie":           {2.79, 5.96, 4.08},
	"liar":          {2.30, 5.50, 4.20},
	"cruel":         {1.97, 5.68, 4.24},
	"evil":          {2.29, 6.03, 4.57},
	"disaster":      {1.73, 6.33, 3.13},
	"crash":         {2.31, 6.95, 3.49},
	"broken":        {3.05, 5.43, 3.29},
	"wrong":         {3.00, 5.00, 4.00},
	"fake":          {2.80, 4.90, 4.40},
	"cringe":        {2.70, 5.30, 4.10},
	"dislike":       {2.80, 5.00, 4.80},
	"useless":       {2.13, 4.87, 3.40},
	"pathetic":      {2.03, 4.89, 3.81},
	"shame":         {2.50, 4.88, 3.40},
	"nightmare":     {1.91, 7.59, 3.68},
	"violence":      {2.10, 7.00, 4.13},
}
