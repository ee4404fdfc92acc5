package store

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection is an in-memory Collection used by tests. It evaluates the
// filter, update, and pipeline operators the repositories actually issue
// ($or, $regex, $gt/$gte/$lt/$lte/$ne/$in, $set/$inc, and the aggregation
// stages $match/$group/$sort/$limit), not the full MongoDB query language.
type MemoryCollection struct {
	mu   sync.Mutex
	docs []map[string]interface{}
	err  error
}

func NewMemory() *MemoryCollection {
	return &MemoryCollection{}
}

// SetErr makes every subsequent operation fail with err until cleared with
// SetErr(nil). Used to exercise soft-failure paths.
func (c *MemoryCollection) SetErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Len reports the number of stored documents.
func (c *MemoryCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

func (c *MemoryCollection) InsertOne(ctx context.Context, doc interface{}) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}

	m, err := toDocument(doc)
	if err != nil {
		return nil, err
	}
	if _, ok := m["_id"]; !ok {
		m["_id"] = primitive.NewObjectID()
	}
	c.docs = append(c.docs, m)
	return m["_id"], nil
}

func (c *MemoryCollection) InsertMany(ctx context.Context, docs []interface{}) error {
	for _, doc := range docs {
		if _, err := c.InsertOne(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (c *MemoryCollection) FindOne(ctx context.Context, filter interface{}, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}

	f, err := toDocument(filterDoc(filter))
	if err != nil {
		return err
	}
	for _, doc := range c.docs {
		if matchFilter(doc, f) {
			return decodeDocument(doc, out)
		}
	}
	return ErrNoDocuments
}

func (c *MemoryCollection) Find(ctx context.Context, filter interface{}, opts *FindOptions, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}

	f, err := toDocument(filterDoc(filter))
	if err != nil {
		return err
	}
	var matched []map[string]interface{}
	for _, doc := range c.docs {
		if matchFilter(doc, f) {
			matched = append(matched, doc)
		}
	}
	if opts != nil && opts.Sort != nil {
		sortDocuments(matched, opts.Sort)
	}
	if opts != nil && opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return decodeDocuments(matched, out)
}

func (c *MemoryCollection) UpdateOne(ctx context.Context, filter, update interface{}) (*UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}

	f, err := toDocument(filterDoc(filter))
	if err != nil {
		return nil, err
	}
	u, err := toDocument(filterDoc(update))
	if err != nil {
		return nil, err
	}
	for _, doc := range c.docs {
		if matchFilter(doc, f) {
			applyUpdate(doc, u)
			return &UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &UpdateResult{}, nil
}

// UpsertOne updates the first matching document or inserts a new one. The
// lock is held across the match and the insert, matching Mongo's
// single-document upsert atomicity.
func (c *MemoryCollection) UpsertOne(ctx context.Context, filter, update interface{}) (*UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}

	f, err := toDocument(filterDoc(filter))
	if err != nil {
		return nil, err
	}
	u, err := toDocument(filterDoc(update))
	if err != nil {
		return nil, err
	}
	for _, doc := range c.docs {
		if matchFilter(doc, f) {
			applyUpdate(doc, u)
			return &UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	// Seed the new document from the filter's equality conditions, the way
	// a Mongo upsert does.
	doc := map[string]interface{}{}
	for k, v := range f {
		if !strings.HasPrefix(k, "$") {
			if _, isOp := v.(map[string]interface{}); !isOp {
				doc[k] = v
			}
		}
	}
	applyUpdate(doc, u)
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	c.docs = append(c.docs, doc)
	return &UpdateResult{UpsertedCount: 1}, nil
}

func (c *MemoryCollection) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return c.delete(filter, true)
}

func (c *MemoryCollection) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	return c.delete(filter, false)
}

func (c *MemoryCollection) delete(filter interface{}, single bool) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}

	f, err := toDocument(filterDoc(filter))
	if err != nil {
		return 0, err
	}
	var kept []map[string]interface{}
	var deleted int64
	for _, doc := range c.docs {
		if (single && deleted > 0) || !matchFilter(doc, f) {
			kept = append(kept, doc)
			continue
		}
		deleted++
	}
	c.docs = kept
	return deleted, nil
}

func (c *MemoryCollection) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}

	f, err := toDocument(filterDoc(filter))
	if err != nil {
		return 0, err
	}
	var n int64
	for _, doc := range c.docs {
		if matchFilter(doc, f) {
			n++
		}
	}
	return n, nil
}

// --- document codec ---

// toDocument round-trips a value through bson into a plain
// map[string]interface{} so stored documents look like decoded Mongo ones.
func toDocument(v interface{}) (map[string]interface{}, error) {
	if v == nil {
		return map[string]interface{}{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var d bson.D
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return normalizeDoc(d), nil
}

// filterDoc ensures nil filters marshal as empty documents.
func filterDoc(v interface{}) interface{} {
	if v == nil {
		return bson.M{}
	}
	return v
}

func normalizeDoc(d bson.D) map[string]interface{} {
	m := make(map[string]interface{}, len(d))
	for _, e := range d {
		m[e.Key] = normalizeValue(e.Value)
	}
	return m
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.D:
		return normalizeDoc(t)
	case bson.M:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = normalizeValue(val)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[k] = normalizeValue(val)
		}
		return m
	case primitive.A:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return v
	}
}

func decodeDocument(doc map[string]interface{}, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func decodeDocuments(docs []map[string]interface{}, out interface{}) error {
	wrapper := bson.M{"docs": docs}
	raw, err := bson.Marshal(wrapper)
	if err != nil {
		return err
	}
	var holder struct {
		Docs bson.RawValue `bson:"docs"`
	}
	if err := bson.Unmarshal(raw, &holder); err != nil {
		return err
	}
	return holder.Docs.Unmarshal(out)
}

// --- filter matching ---

func matchFilter(doc, filter map[string]interface{}) bool {
	for key, cond := range filter {
		switch key {
		case "$or":
			if !matchAny(doc, cond) {
				return false
			}
		case "$and":
			if !matchAll(doc, cond) {
				return false
			}
		default:
			if !matchField(lookupPath(doc, key), cond) {
				return false
			}
		}
	}
	return true
}

func matchAny(doc map[string]interface{}, cond interface{}) bool {
	list, ok := cond.([]interface{})
	if !ok {
		return false
	}
	for _, sub := range list {
		if m, ok := sub.(map[string]interface{}); ok && matchFilter(doc, m) {
			return true
		}
	}
	return false
}

func matchAll(doc map[string]interface{}, cond interface{}) bool {
	list, ok := cond.([]interface{})
	if !ok {
		return false
	}
	for _, sub := range list {
		m, ok := sub.(map[string]interface{})
		if !ok || !matchFilter(doc, m) {
			return false
		}
	}
	return true
}

func matchField(val, cond interface{}) bool {
	ops, ok := cond.(map[string]interface{})
	if !ok || !hasOperatorKeys(ops) {
		return equalValues(val, cond)
	}

	for op, arg := range ops {
		switch op {
		case "$gt":
			if cmp, ok := compareValues(val, arg); !ok || cmp <= 0 {
				return false
			}
		case "$gte":
			if cmp, ok := compareValues(val, arg); !ok || cmp < 0 {
				return false
			}
		case "$lt":
			if cmp, ok := compareValues(val, arg); !ok || cmp >= 0 {
				return false
			}
		case "$lte":
			if cmp, ok := compareValues(val, arg); !ok || cmp > 0 {
				return false
			}
		case "$ne":
			if equalValues(val, arg) {
				return false
			}
		case "$in":
			list, ok := arg.([]interface{})
			if !ok {
				return false
			}
			found := false
			for _, item := range list {
				if equalValues(val, item) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$regex":
			if !matchRegex(val, arg, ops["$options"]) {
				return false
			}
		case "$options":
			// handled with $regex
		default:
			return false
		}
	}
	return true
}

func hasOperatorKeys(m map[string]interface{}) bool {
	for k := range m {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

func matchRegex(val, pattern, opts interface{}) bool {
	s, ok := val.(string)
	if !ok {
		return false
	}
	p, ok := pattern.(string)
	if !ok {
		if rx, isRx := pattern.(primitive.Regex); isRx {
			p = rx.Pattern
			if opts == nil {
				opts = rx.Options
			}
		} else {
			return false
		}
	}
	if o, ok := opts.(string); ok && strings.Contains(o, "i") {
		p = "(?i)" + p
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func lookupPath(doc map[string]interface{}, path string) interface{} {
	parts := strings.Split(path, ".")
	var cur interface{} = doc
	for _, part := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}
	return cur
}

func equalValues(a, b interface{}) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	return false
}

// compareValues coerces the bson numeric and time representations so values
// written through the codec compare against native Go filter values.
func compareValues(a, b interface{}) (int, bool) {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return 0, true
		}
		return 0, false
	}
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if at, aok := toMillis(a); aok {
		if bt, bok := toMillis(b); bok {
			switch {
			case at < bt:
				return -1, true
			case at > bt:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		if !av {
			return -1, true
		}
		return 1, true
	case primitive.ObjectID:
		bv, ok := b.(primitive.ObjectID)
		if !ok {
			return 0, false
		}
		return strings.Compare(av.Hex(), bv.Hex()), true
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	return 0, false
}

func toMillis(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UnixMilli(), true
	case primitive.DateTime:
		return int64(t), true
	}
	return 0, false
}

// --- updates ---

func applyUpdate(doc, update map[string]interface{}) {
	for op, spec := range update {
		fields, ok := spec.(map[string]interface{})
		if !ok {
			continue
		}
		switch op {
		case "$set":
			for k, v := range fields {
				setPath(doc, k, v)
			}
		case "$inc":
			for k, v := range fields {
				cur, _ := toFloat(lookupPath(doc, k))
				delta, _ := toFloat(v)
				setPath(doc, k, numericValue(cur+delta))
			}
		}
	}
}

func setPath(doc map[string]interface{}, path string, v interface{}) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}

// numericValue keeps integral results as int64 so they decode back into
// integer struct fields.
func numericValue(f float64) interface{} {
	if f == math.Trunc(f) {
		return int64(f)
	}
	return f
}

// --- sorting ---

func sortDocuments(docs []map[string]interface{}, keys bson.D) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, key := range keys {
			dir := 1
			if d, ok := toFloat(key.Value); ok && d < 0 {
				dir = -1
			}
			cmp, ok := compareValues(lookupPath(docs[i], key.Key), lookupPath(docs[j], key.Key))
			if !ok || cmp == 0 {
				continue
			}
			return cmp*dir < 0
		}
		return false
	})
}

// --- aggregation ---

func (c *MemoryCollection) Aggregate(ctx context.Context, pipeline interface{}, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}

	stages, err := pipelineStages(pipeline)
	if err != nil {
		return err
	}

	current := make([]map[string]interface{}, len(c.docs))
	copy(current, c.docs)

	for _, stage := range stages {
		for name, spec := range stage {
			switch name {
			case "$match":
				f, err := toDocument(spec)
				if err != nil {
					return err
				}
				var next []map[string]interface{}
				for _, doc := range current {
					if matchFilter(doc, f) {
						next = append(next, doc)
					}
				}
				current = next
			case "$group":
				group, ok := spec.(bson.M)
				if !ok {
					return fmt.Errorf("memory store: $group spec must be bson.M")
				}
				current = groupDocuments(current, group)
			case "$sort":
				keys, ok := spec.(bson.D)
				if !ok {
					return fmt.Errorf("memory store: $sort spec must be bson.D")
				}
				sortDocuments(current, keys)
			case "$limit":
				if n, ok := toFloat(spec); ok && int64(len(current)) > int64(n) {
					current = current[:int64(n)]
				}
			default:
				return fmt.Errorf("memory store: unsupported stage %q", name)
			}
		}
	}
	return decodeDocuments(current, out)
}

func pipelineStages(pipeline interface{}) ([]bson.M, error) {
	list, ok := pipeline.(bson.A)
	if !ok {
		return nil, fmt.Errorf("memory store: pipeline must be bson.A")
	}
	stages := make([]bson.M, 0, len(list))
	for _, s := range list {
		stage, ok := s.(bson.M)
		if !ok {
			return nil, fmt.Errorf("memory store: pipeline stage must be bson.M")
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

type groupAcc struct {
	key    interface{}
	sums   map[string]float64
	counts map[string]int64
}

func groupDocuments(docs []map[string]interface{}, spec bson.M) []map[string]interface{} {
	var order []string
	groups := map[string]*groupAcc{}

	for _, doc := range docs {
		keyVal := evalExpr(doc, spec["_id"])
		hash := fmt.Sprintf("%v", keyVal)
		acc, ok := groups[hash]
		if !ok {
			acc = &groupAcc{key: keyVal, sums: map[string]float64{}, counts: map[string]int64{}}
			groups[hash] = acc
			order = append(order, hash)
		}
		for field, accSpec := range spec {
			if field == "_id" {
				continue
			}
			ops, ok := accSpec.(bson.M)
			if !ok {
				continue
			}
			if expr, ok := ops["$sum"]; ok {
				if f, ok := toFloat(evalExpr(doc, expr)); ok {
					acc.sums[field] += f
					acc.counts[field]++
				}
			}
			if expr, ok := ops["$avg"]; ok {
				if f, ok := toFloat(evalExpr(doc, expr)); ok {
					acc.sums[field] += f
					acc.counts[field]++
				}
			}
		}
	}

	out := make([]map[string]interface{}, 0, len(order))
	for _, hash := range order {
		acc := groups[hash]
		doc := map[string]interface{}{"_id": acc.key}
		for field, accSpec := range spec {
			if field == "_id" {
				continue
			}
			ops, ok := accSpec.(bson.M)
			if !ok {
				continue
			}
			if _, isAvg := ops["$avg"]; isAvg {
				if acc.counts[field] > 0 {
					doc[field] = acc.sums[field] / float64(acc.counts[field])
				} else {
					doc[field] = float64(0)
				}
			} else {
				doc[field] = numericValue(acc.sums[field])
			}
		}
		out = append(out, doc)
	}
	return out
}

func evalExpr(doc map[string]interface{}, expr interface{}) interface{} {
	switch t := expr.(type) {
	case nil:
		return nil
	case string:
		if strings.HasPrefix(t, "$") {
			return lookupPath(doc, strings.TrimPrefix(t, "$"))
		}
		return t
	case bson.M:
		if len(t) == 1 {
			for op, arg := range t {
				if strings.HasPrefix(op, "$") {
					return evalOperator(doc, op, arg)
				}
			}
		}
		// compound group key: evaluate each sub-expression
		key := map[string]interface{}{}
		for k, sub := range t {
			key[k] = evalExpr(doc, sub)
		}
		return key
	default:
		return t
	}
}

func evalOperator(doc map[string]interface{}, op string, arg interface{}) interface{} {
	switch op {
	case "$year", "$month", "$dayOfMonth":
		millis, ok := toMillis(evalExpr(doc, arg))
		if !ok {
			return nil
		}
		ts := time.UnixMilli(millis).UTC()
		switch op {
		case "$year":
			return int64(ts.Year())
		case "$month":
			return int64(ts.Month())
		default:
			return int64(ts.Day())
		}
	case "$multiply":
		factors, ok := arg.(bson.A)
		if !ok {
			return nil
		}
		product := 1.0
		for _, f := range factors {
			v, ok := toFloat(evalExpr(doc, f))
			if !ok {
				return nil
			}
			product *= v
		}
		return numericValue(product)
	}
	return nil
}
