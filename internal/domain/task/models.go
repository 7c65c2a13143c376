package task

// Task 待办任务实体
type Task struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Document 持久化文档：任务列表 + 下一个可用 ID
type Document struct {
	Tasks  []Task `json:"tasks"`
	NextID int    `json:"nextId"`
}

// Patch 更新补丁，nil 字段表示不修改
type Patch struct {
	Title     *string
	Completed *bool
}

// NewDocument 创建空文档
func NewDocument() *Document {
	return &Document{
		Tasks:  []Task{},
		NextID: 1,
	}
}

// Normalize 修正加载后的文档，保证 Tasks 非 nil 且 NextID 大于所有已分配 ID
func (d *Document) Normalize() {
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.NextID < 1 {
		d.NextID = 1
	}
	for _, t := range d.Tasks {
		if t.ID >= d.NextID {
			d.NextID = t.ID + 1
		}
	}
}

// IndexOf 按 ID 查找任务下标，不存在返回 -1
func (d *Document) IndexOf(id int) int {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Append 以 NextID 创建新任务并递增计数器
func (d *Document) Append(title string, completed bool) Task {
	t := Task{
		ID:        d.NextID,
		Title:     title,
		Completed: completed,
	}
	d.Tasks = append(d.Tasks, t)
	d.NextID++
	return t
}

// Apply 只覆盖补丁中给出的字段
func (t *Task) Apply(p Patch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

// Remove 删除指定下标的任务，保持其余任务顺序
func (d *Document) Remove(idx int) Task {
	removed := d.Tasks[idx]
	d.Tasks = append(d.Tasks[:idx], d.Tasks[idx+1:]...)
	return removed
}
