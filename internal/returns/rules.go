package returns

import (
	"regexp"
	"strings"
)

// Sub-patterns shared by the rule templates.
const (
	// linked object reference: anchor-derived name and display name
	hrefPattern = `<a href=".*?#(?P<objectAnchor>.*?)">(?P<objectName>.*?)</a>`
	// emphasised literal such as <em>True</em>
	emPattern = `<em>(?P<simple>.*?)</em>`
)

// Capture group names.
const (
	groupAnchor = "objectAnchor"
	groupObject = "objectName"
	groupSimple = "simple"
	groupArray  = "array"
)

// Rule is one literal sentence template. {href} and {em} expand to the
// shared sub-patterns; a group named "array" marks the result as a list.
type Rule struct {
	Template string
}

// DefaultRules is the closed sentence set of the Bot API reference.
var DefaultRules = []Rule{
	{`An (?P<array>Array) of {href} objects is returned`},
	{`Returns {em} on success`},
	{`Returns the new invite link as {em} on success`},
	{`Returns a {href}(?: object)?(?: on success)?\.`},
	{`Returns the uploaded {href} on success`},
	{`On success, the sent {href} is returned`},
	{`On success, an (?P<array>array) of the sent {href} is returned`},
	{`On success, if the edited message was sent by the bot, the edited {href} is returned, otherwise {em} is returned`},
	{`On success, if the message was sent by the bot, the sent {href} is returned, otherwise {em} is returned`},
	{`On success, a {href} object is returned`},
	{`On success, returns an (?P<array>Array) of {href} objects`},
	{`On success, {em} is returned`},
	{`On success, if edited message is sent by the bot, the edited {href} is returned, otherwise {em} is returned`},
	{`On success, the stopped {href} with the final results is returned`},
	{`On success, (?P<simple>True) is returned`},
	{`On success, if the message was sent by the bot, returns the edited {href}, otherwise returns {em}. Returns an error`},
	{`On success, returns an <em>(?P<array>Array)</em> of {href} objects`},
	{`On success, returns a {href} object\.`},
	{`Returns basic information about the bot in form of a {href} object\.`},
	{`Returns (?P<array>Array) of {href} on success`},
	{`Returns the {href} of the sent message on success`},
	{`On success, an (?P<array>array) of {href} that were sent is returned`},
	{`On success, if the edited message is not an inline message, the edited {href} is returned, otherwise {em} is returned`},
	{`invite link as (?:a )?{href} object`},
	{`On success, if the message is not an inline message, the edited {href} is returned, otherwise {em} is returned.`},
	{`On success, the stopped {href} is returned.`},
	{`On success, if the message is not an inline message, the {href} is returned, otherwise {em} is returned.`},
	{`Returns an (?P<array>Array) of {href} objects`},
	{`Returns {href} on success`},
	{`Returns the created invoice link as {em} on success.`},
	{`Returns information about the created topic as a {href} object.`},
	{`On success, an (?P<array>array) of {href} of the sent messages is returned.`},
}

var expander = strings.NewReplacer("{href}", hrefPattern, "{em}", emPattern)

// compiledRule is a Rule with its capture kinds resolved once.
type compiledRule struct {
	re        *regexp.Regexp
	objectIdx int // -1 when the rule has no linked reference
	anchorIdx int
	simpleIdx int // -1 when the rule has no literal
	array     bool
}

func compile(r Rule) (compiledRule, error) {
	re, err := regexp.Compile(expander.Replace(r.Template))
	if err != nil {
		return compiledRule{}, err
	}
	return compiledRule{
		re:        re,
		objectIdx: re.SubexpIndex(groupObject),
		anchorIdx: re.SubexpIndex(groupAnchor),
		simpleIdx: re.SubexpIndex(groupSimple),
		array:     re.SubexpIndex(groupArray) >= 0,
	}, nil
}
